package label

type entry struct {
	pictograms []string
	signal     SignalWord
	hazards    []string
}

// tokenTable maps canonical token strings to their label elements.
var tokenTable = map[string]entry{
	"Acute Tox. 1 (oral)":   {[]string{"GHS06"}, Danger, []string{"H300"}},
	"Acute Tox. 2 (oral)":   {[]string{"GHS06"}, Danger, []string{"H300"}},
	"Acute Tox. 3 (oral)":   {[]string{"GHS06"}, Danger, []string{"H301"}},
	"Acute Tox. 4 (oral)":   {[]string{"GHS07"}, Warning, []string{"H302"}},
	"Acute Tox. 1 (dermal)": {[]string{"GHS06"}, Danger, []string{"H310"}},
	"Acute Tox. 2 (dermal)": {[]string{"GHS06"}, Danger, []string{"H310"}},
	"Acute Tox. 3 (dermal)": {[]string{"GHS06"}, Danger, []string{"H311"}},
	"Acute Tox. 4 (dermal)": {[]string{"GHS07"}, Warning, []string{"H312"}},
	"Acute Tox. 1 (inhale)": {[]string{"GHS06"}, Danger, []string{"H330"}},
	"Acute Tox. 2 (inhale)": {[]string{"GHS06"}, Danger, []string{"H330"}},
	"Acute Tox. 3 (inhale)": {[]string{"GHS06"}, Danger, []string{"H331"}},
	"Acute Tox. 4 (inhale)": {[]string{"GHS07"}, Warning, []string{"H332"}},

	// Without a route the hazard statement is unknown.
	"Acute Tox. 1": {[]string{"GHS06"}, Danger, nil},
	"Acute Tox. 2": {[]string{"GHS06"}, Danger, nil},
	"Acute Tox. 3": {[]string{"GHS06"}, Danger, nil},
	"Acute Tox. 4": {[]string{"GHS07"}, Warning, nil},

	"Unst. Expl.": {[]string{"GHS01"}, Danger, []string{"H200"}},
	"Expl. 1.1":   {[]string{"GHS01"}, Danger, []string{"H201"}},
	"Expl. 1.2":   {[]string{"GHS01"}, Danger, []string{"H202"}},
	"Expl. 1.3":   {[]string{"GHS01"}, Danger, []string{"H203"}},
	"Expl. 1.4":   {[]string{"GHS01"}, Warning, []string{"H204"}},
	"Expl. 1.5":   {nil, Danger, []string{"H205"}},

	"Flam. Gas 1":       {[]string{"GHS02"}, Danger, []string{"H220"}},
	"Flam. Gas 1A":      {[]string{"GHS02"}, Danger, []string{"H220"}},
	"Flam. Gas 1B":      {[]string{"GHS02"}, Danger, []string{"H221"}},
	"Flam. Gas 2":       {nil, Warning, []string{"H221"}},
	"Chem. Unst. Gas A": {nil, NoSignal, []string{"H230"}},
	"Chem. Unst. Gas B": {nil, NoSignal, []string{"H231"}},
	"Aerosol 1":         {[]string{"GHS02"}, Danger, []string{"H222", "H229"}},
	"Aerosol 2":         {[]string{"GHS02"}, Warning, []string{"H223", "H229"}},
	"Aerosol 3":         {nil, Warning, []string{"H229"}},
	"Ox. Gas 1":         {[]string{"GHS03"}, Danger, []string{"H270"}},

	"Press. Gas":             {[]string{"GHS04"}, Warning, []string{"H280"}},
	"Press. Gas (Comp.)":     {[]string{"GHS04"}, Warning, []string{"H280"}},
	"Press. Gas (Liq.)":      {[]string{"GHS04"}, Warning, []string{"H280"}},
	"Press. Gas (Ref. Liq.)": {[]string{"GHS04"}, Warning, []string{"H281"}},
	"Press. Gas (Diss.)":     {[]string{"GHS04"}, Warning, []string{"H280"}},

	"Flam. Liq. 1": {[]string{"GHS02"}, Danger, []string{"H224"}},
	"Flam. Liq. 2": {[]string{"GHS02"}, Danger, []string{"H225"}},
	"Flam. Liq. 3": {[]string{"GHS02"}, Warning, []string{"H226"}},
	"Flam. Sol. 1": {[]string{"GHS02"}, Danger, []string{"H228"}},
	"Flam. Sol. 2": {[]string{"GHS02"}, Warning, []string{"H228"}},

	"Self-react. A":  {[]string{"GHS01"}, Danger, []string{"H240"}},
	"Self-react. B":  {[]string{"GHS01", "GHS02"}, Danger, []string{"H241"}},
	"Self-react. C":  {[]string{"GHS02"}, Danger, []string{"H242"}},
	"Self-react. D":  {[]string{"GHS02"}, Danger, []string{"H242"}},
	"Self-react. E":  {[]string{"GHS02"}, Warning, []string{"H242"}},
	"Self-react. F":  {[]string{"GHS02"}, Warning, []string{"H242"}},
	"Pyr. Liq. 1":    {[]string{"GHS02"}, Danger, []string{"H250"}},
	"Pyr. Sol. 1":    {[]string{"GHS02"}, Danger, []string{"H250"}},
	"Self-heat. 1":   {[]string{"GHS02"}, Danger, []string{"H251"}},
	"Self-heat. 2":   {[]string{"GHS02"}, Warning, []string{"H252"}},
	"Water-react. 1": {[]string{"GHS02"}, Danger, []string{"H260"}},
	"Water-react. 2": {[]string{"GHS02"}, Danger, []string{"H261"}},
	"Water-react. 3": {[]string{"GHS02"}, Warning, []string{"H261"}},
	"Ox. Liq. 1":     {[]string{"GHS03"}, Danger, []string{"H271"}},
	"Ox. Liq. 2":     {[]string{"GHS03"}, Danger, []string{"H272"}},
	"Ox. Liq. 3":     {[]string{"GHS03"}, Warning, []string{"H272"}},
	"Ox. Sol. 1":     {[]string{"GHS03"}, Danger, []string{"H271"}},
	"Ox. Sol. 2":     {[]string{"GHS03"}, Danger, []string{"H272"}},
	"Ox. Sol. 3":     {[]string{"GHS03"}, Warning, []string{"H272"}},
	"Met. Corr. 1":   {[]string{"GHS05"}, Warning, []string{"H290"}},

	"Skin Corr. 1":   {[]string{"GHS05"}, Danger, []string{"H314"}},
	"Skin Corr. 1A":  {[]string{"GHS05"}, Danger, []string{"H314"}},
	"Skin Corr. 1B":  {[]string{"GHS05"}, Danger, []string{"H314"}},
	"Skin Corr. 1C":  {[]string{"GHS05"}, Danger, []string{"H314"}},
	"Skin Irrit. 2":  {[]string{"GHS07"}, Warning, []string{"H315"}},
	"Eye Dam. 1":     {[]string{"GHS05"}, Danger, []string{"H318"}},
	"Eye Irrit. 2":   {[]string{"GHS07"}, Warning, []string{"H319"}},
	"Eye Irrit. 2A":  {[]string{"GHS07"}, Warning, []string{"H319"}},
	"Eye Irrit. 2B":  {[]string{"GHS07"}, Warning, []string{"H319"}},
	"Resp. Sens. 1":  {[]string{"GHS08"}, Danger, []string{"H334"}},
	"Resp. Sens. 1A": {[]string{"GHS08"}, Danger, []string{"H334"}},
	"Resp. Sens. 1B": {[]string{"GHS08"}, Danger, []string{"H334"}},
	"Skin Sens. 1":   {[]string{"GHS07"}, Warning, []string{"H317"}},
	"Skin Sens. 1A":  {[]string{"GHS07"}, Warning, []string{"H317"}},
	"Skin Sens. 1B":  {[]string{"GHS07"}, Warning, []string{"H317"}},

	"Muta. 1":  {[]string{"GHS08"}, Danger, []string{"H340"}},
	"Muta. 1A": {[]string{"GHS08"}, Danger, []string{"H340"}},
	"Muta. 1B": {[]string{"GHS08"}, Danger, []string{"H340"}},
	"Muta. 2":  {[]string{"GHS08"}, Warning, []string{"H341"}},
	"Carc. 1":  {[]string{"GHS08"}, Danger, []string{"H350"}},
	"Carc. 1A": {[]string{"GHS08"}, Danger, []string{"H350"}},
	"Carc. 1B": {[]string{"GHS08"}, Danger, []string{"H350"}},
	"Carc. 2":  {[]string{"GHS08"}, Warning, []string{"H351"}},
	"Repr. 1":  {[]string{"GHS08"}, Danger, []string{"H360"}},
	"Repr. 1A": {[]string{"GHS08"}, Danger, []string{"H360"}},
	"Repr. 1B": {[]string{"GHS08"}, Danger, []string{"H360"}},
	"Repr. 2":  {[]string{"GHS08"}, Warning, []string{"H361"}},
	"Lact.":    {nil, NoSignal, []string{"H362"}},

	"STOT SE 1":   {[]string{"GHS08"}, Danger, []string{"H370"}},
	"STOT SE 2":   {[]string{"GHS08"}, Warning, []string{"H371"}},
	"STOT SE 3":   {[]string{"GHS07"}, Warning, []string{"H335", "H336"}},
	"STOT RE 1":   {[]string{"GHS08"}, Danger, []string{"H372"}},
	"STOT RE 2":   {[]string{"GHS08"}, Warning, []string{"H373"}},
	"Asp. Tox. 1": {[]string{"GHS08"}, Danger, []string{"H304"}},
	"Asp. Tox. 2": {[]string{"GHS08"}, Warning, []string{"H305"}},

	"Aquatic Acute 1":   {[]string{"GHS09"}, Warning, []string{"H400"}},
	"Aquatic Chronic 1": {[]string{"GHS09"}, Warning, []string{"H410"}},
	"Aquatic Chronic 2": {[]string{"GHS09"}, NoSignal, []string{"H411"}},
	"Aquatic Chronic 3": {nil, NoSignal, []string{"H412"}},
	"Aquatic Chronic 4": {nil, NoSignal, []string{"H413"}},
	"Ozone 1":           {[]string{"GHS07"}, Warning, []string{"H420"}},
}

var (
	pExplosive     = []string{"P210", "P230", "P234", "P240", "P250", "P280", "P370+P372+P380+P373", "P401", "P501"}
	pFlamGas       = []string{"P210", "P377", "P381", "P403"}
	pAerosol       = []string{"P211", "P210", "P251", "P410+P412"}
	pFlamLiq       = []string{"P210", "P233", "P240", "P241", "P242", "P243", "P280", "P303+P361+P353", "P370+P378", "P403+P235", "P501"}
	pSelfReact     = []string{"P210", "P234", "P235", "P240", "P242", "P280", "P370+P372+P380+P373", "P403", "P411", "P420", "P501"}
	pSelfHeat      = []string{"P235", "P280", "P407", "P413", "P420"}
	pWaterReact    = []string{"P223", "P231+P232", "P280", "P302+P335+P334", "P370+P378", "P402+P404", "P501"}
	pFatalOral     = []string{"P264", "P270", "P301+P310", "P321", "P330", "P405", "P501"}
	pCMR           = []string{"P201", "P202", "P280", "P308+P313", "P405", "P501"}
	pRespiratory   = []string{"P261", "P271", "P304+P340", "P312", "P403+P233", "P405", "P501"}
	pAspiration    = []string{"P301+P310", "P331", "P405", "P501"}
	pAquaticToxic  = []string{"P273", "P391", "P501"}
	pAquaticHarmed = []string{"P273", "P501"}
)

// precautionary maps each hazard statement to its precautionary
// statements, in label order.
var precautionary = map[string][]string{
	"H200": {"P201", "P250", "P280", "P370+P372+P380+P373", "P401", "P501"},
	"H201": pExplosive,
	"H202": pExplosive,
	"H203": pExplosive,
	"H204": {"P210", "P234", "P240", "P250", "P280", "P370+P372+P380+P373", "P401", "P501"},
	"H205": pExplosive,
	"H220": pFlamGas,
	"H221": pFlamGas,
	"H222": pAerosol,
	"H223": pAerosol,
	"H224": pFlamLiq,
	"H225": pFlamLiq,
	"H226": pFlamLiq,
	"H228": {"P210", "P240", "P241", "P280", "P370+P378"},
	"H229": {"P210", "P410+P412"},
	"H230": {"P202"},
	"H231": {"P202"},
	"H240": pSelfReact,
	"H241": pSelfReact,
	"H242": pSelfReact,
	"H250": {"P210", "P222", "P231+P232", "P233", "P280", "P302+P334", "P370+P378"},
	"H251": pSelfHeat,
	"H252": pSelfHeat,
	"H260": pWaterReact,
	"H261": pWaterReact,
	"H270": {"P220", "P244", "P370+P376", "P403"},
	"H271": {"P210", "P220", "P280", "P283", "P306+P360", "P371+P380+P375", "P370+P378", "P420", "P501"},
	"H272": {"P210", "P220", "P280", "P370+P378", "P501"},
	"H280": {"P410+P403"},
	"H281": {"P282", "P336+P315", "P403"},
	"H290": {"P234", "P390", "P406"},
	"H300": pFatalOral,
	"H301": pFatalOral,
	"H302": {"P264", "P270", "P301+P312", "P330", "P501"},
	"H304": pAspiration,
	"H305": pAspiration,
	"H310": {"P262", "P264", "P270", "P280", "P302+P352", "P310", "P321", "P361+P364", "P405", "P501"},
	"H311": {"P280", "P302+P352", "P312", "P321", "P361+P364", "P405", "P501"},
	"H312": {"P280", "P302+P352", "P312", "P321", "P362+P364", "P501"},
	"H314": {"P260", "P264", "P280", "P301+P330+P331", "P303+P361+P353", "P363", "P304+P340", "P310", "P321", "P305+P351+P338", "P405", "P501"},
	"H315": {"P264", "P280", "P302+P352", "P321", "P332+P313", "P362+P364"},
	"H317": {"P261", "P272", "P280", "P302+P352", "P333+P313", "P321", "P362+P364", "P501"},
	"H318": {"P280", "P305+P351+P338", "P310"},
	"H319": {"P264", "P280", "P305+P351+P338", "P337+P313"},
	"H330": {"P260", "P271", "P284", "P304+P340", "P310", "P320", "P403+P233", "P405", "P501"},
	"H331": {"P261", "P271", "P304+P340", "P311", "P321", "P403+P233", "P405", "P501"},
	"H332": {"P261", "P271", "P304+P340", "P312"},
	"H334": {"P261", "P284", "P304+P340", "P342+P311", "P501"},
	"H335": pRespiratory,
	"H336": pRespiratory,
	"H340": pCMR,
	"H341": pCMR,
	"H350": pCMR,
	"H351": pCMR,
	"H360": pCMR,
	"H361": pCMR,
	"H362": {"P201", "P260", "P263", "P264", "P270", "P308+P313"},
	"H370": {"P260", "P264", "P270", "P308+P311", "P321", "P405", "P501"},
	"H371": {"P260", "P264", "P270", "P308+P311", "P405", "P501"},
	"H372": {"P260", "P264", "P270", "P314", "P501"},
	"H373": {"P260", "P314", "P501"},
	"H400": pAquaticToxic,
	"H410": pAquaticToxic,
	"H411": pAquaticToxic,
	"H412": pAquaticHarmed,
	"H413": pAquaticHarmed,
	"H420": {"P502"},
}
