package classify

import (
	"context"

	"github.com/unbound-force/clpmix/internal/taxonomy"
	"github.com/unbound-force/clpmix/internal/tolerance"
)

// evaluation carries the state of one pass over the rule table.
type evaluation struct {
	engine     *Engine
	mixture    taxonomy.Mixture
	facts      *Facts
	out        []taxonomy.Token
	advisories []taxonomy.Advisory
}

func (ev *evaluation) emit(t taxonomy.Token) {
	ev.out = append(ev.out, t)
}

func (ev *evaluation) advise(c taxonomy.Class) {
	ev.advisories = append(ev.advisories, taxonomy.NewAdvisory(c))
}

// rule is one row of the rule table. A rule runs only when some
// substance carries one of its classes.
type rule struct {
	name    string
	classes []taxonomy.Class
	eval    func(ctx context.Context, ev *evaluation) error
}

func (r rule) applies(m taxonomy.Mixture) bool {
	for _, s := range m.Substances {
		if s.HasAny(r.classes...) {
			return true
		}
	}
	return false
}

func ladderRule(name string, l ladder, classes ...taxonomy.Class) rule {
	return rule{
		name:    name,
		classes: classes,
		eval: func(_ context.Context, ev *evaluation) error {
			if t, ok := l.evaluate(ev.mixture, ev.facts); ok {
				ev.emit(t)
			}
			return nil
		},
	}
}

// advisoryRule covers physical hazards whose mixture classification
// needs test data. It emits no token.
func advisoryRule(name string, classes ...taxonomy.Class) rule {
	return rule{
		name:    name,
		classes: classes,
		eval: func(_ context.Context, ev *evaluation) error {
			ev.advise(classes[0])
			return nil
		},
	}
}

var (
	nonGas = []taxonomy.PhysicalState{taxonomy.Solid, taxonomy.Liquid}
	gas    = []taxonomy.PhysicalState{taxonomy.Gas}

	skinCorrosive = sumOf(taxonomy.SkinCorr)
	skinIrritant  = sumOf(taxonomy.SkinIrrit, "2")
	eyeDamaging   = sumOf(taxonomy.EyeDam, "1")
	eyeIrritant   = sumOf(taxonomy.EyeIrrit)
)

// rules is evaluated top to bottom; the mixture classification is the
// concatenation of each row's output in this order.
var rules = []rule{
	{name: "acute toxicity", classes: []taxonomy.Class{taxonomy.AcuteTox}, eval: evalAcuteTox},
	advisoryRule("explosives", taxonomy.Expl, taxonomy.UnstExpl),
	advisoryRule("flammable gases", taxonomy.FlamGas),
	advisoryRule("chemically unstable gases", taxonomy.ChemUnstGas),
	advisoryRule("aerosols", taxonomy.Aerosol),
	advisoryRule("oxidising gases", taxonomy.OxGas),
	advisoryRule("gases under pressure", taxonomy.PressGas),
	{name: "flammable liquids", classes: []taxonomy.Class{taxonomy.FlamLiq}, eval: evalFlamLiq},
	{name: "flammable solids", classes: []taxonomy.Class{taxonomy.FlamSol}, eval: evalFlamSol},

	ladderRule("skin corrosion/irritation", ladder{
		{terms: []term{skinCorrosive}, min: 5, emit: taxonomy.NewToken(taxonomy.SkinCorr, "1")},
		{terms: []term{skinCorrosive}, min: 1, below: 5, emit: taxonomy.NewToken(taxonomy.SkinIrrit, "2")},
		{terms: []term{skinIrritant}, min: 10, emit: taxonomy.NewToken(taxonomy.SkinIrrit, "2")},
		{terms: []term{skinCorrosive.times(10), skinIrritant}, min: 10, emit: taxonomy.NewToken(taxonomy.SkinIrrit, "2")},
	}, taxonomy.SkinCorr, taxonomy.SkinIrrit),

	ladderRule("serious eye damage/irritation", ladder{
		{terms: []term{skinCorrosive, eyeDamaging}, min: 3, emit: taxonomy.NewToken(taxonomy.EyeDam, "1")},
		{terms: []term{skinCorrosive, eyeDamaging}, min: 1, below: 3, emit: taxonomy.NewToken(taxonomy.EyeIrrit, "2")},
		{terms: []term{eyeIrritant}, min: 10, emit: taxonomy.NewToken(taxonomy.EyeIrrit, "2")},
		{terms: []term{skinCorrosive.times(10), eyeDamaging.times(10), eyeIrritant}, min: 10, emit: taxonomy.NewToken(taxonomy.EyeIrrit, "2")},
	}, taxonomy.EyeDam, taxonomy.EyeIrrit, taxonomy.SkinCorr),

	ladderRule("respiratory sensitisation", ladder{
		{terms: []term{sumOf(taxonomy.RespSens, "1").in(nonGas...)}, min: 1, emit: taxonomy.NewToken(taxonomy.RespSens, "1")},
		{terms: []term{sumOf(taxonomy.RespSens, "1A").in(nonGas...)}, min: 0.1, emit: taxonomy.NewToken(taxonomy.RespSens, "1")},
		{terms: []term{sumOf(taxonomy.RespSens, "1B").in(nonGas...)}, min: 1, emit: taxonomy.NewToken(taxonomy.RespSens, "1")},
		{terms: []term{sumOf(taxonomy.RespSens, "1").in(gas...)}, min: 0.2, emit: taxonomy.NewToken(taxonomy.RespSens, "1")},
		{terms: []term{sumOf(taxonomy.RespSens, "1A").in(gas...)}, min: 0.1, emit: taxonomy.NewToken(taxonomy.RespSens, "1")},
		{terms: []term{sumOf(taxonomy.RespSens, "1B").in(gas...)}, min: 0.2, emit: taxonomy.NewToken(taxonomy.RespSens, "1")},
	}, taxonomy.RespSens),

	ladderRule("skin sensitisation", ladder{
		{terms: []term{sumOf(taxonomy.SkinSens, "1")}, min: 1, emit: taxonomy.NewToken(taxonomy.SkinSens, "1")},
		{terms: []term{sumOf(taxonomy.SkinSens, "1A")}, min: 0.1, emit: taxonomy.NewToken(taxonomy.SkinSens, "1")},
		{terms: []term{sumOf(taxonomy.SkinSens, "1B")}, min: 1, emit: taxonomy.NewToken(taxonomy.SkinSens, "1")},
	}, taxonomy.SkinSens),

	{name: "aquatic environment", classes: []taxonomy.Class{taxonomy.AquaticAcute, taxonomy.AquaticChronic}, eval: evalAquatic},

	advisoryRule("self-reactive substances", taxonomy.SelfReact),
	advisoryRule("pyrophoric liquids", taxonomy.PyrLiq),
	advisoryRule("pyrophoric solids", taxonomy.PyrSol),
	advisoryRule("self-heating substances", taxonomy.SelfHeat),
	advisoryRule("water-reactive substances", taxonomy.WaterReact),
	advisoryRule("oxidising liquids", taxonomy.OxLiq),
	advisoryRule("oxidising solids", taxonomy.OxSol),
	advisoryRule("corrosive to metals", taxonomy.MetCorr),

	ladderRule("germ cell mutagenicity", cutoffs(taxonomy.Muta,
		categoryLimit{"1", 0.1}, categoryLimit{"1A", 0.1}, categoryLimit{"1B", 0.1}, categoryLimit{"2", 1},
	), taxonomy.Muta),
	ladderRule("carcinogenicity", cutoffs(taxonomy.Carc,
		categoryLimit{"1", 0.1}, categoryLimit{"1A", 0.1}, categoryLimit{"1B", 0.1}, categoryLimit{"2", 1},
	), taxonomy.Carc),
	ladderRule("reproductive toxicity", cutoffs(taxonomy.Repr,
		categoryLimit{"1", 0.3}, categoryLimit{"1A", 0.3}, categoryLimit{"1B", 0.3}, categoryLimit{"2", 3},
	), taxonomy.Repr),
	ladderRule("lactation", cutoffs(taxonomy.Lact, categoryLimit{"", 0.3}), taxonomy.Lact),

	ladderRule("specific target organ toxicity, single exposure", ladder{
		{terms: []term{sumOf(taxonomy.StotSE, "1")}, min: 10, emit: taxonomy.NewToken(taxonomy.StotSE, "1")},
		{terms: []term{sumOf(taxonomy.StotSE, "1")}, min: 1, below: 10, emit: taxonomy.NewToken(taxonomy.StotSE, "2")},
		{terms: []term{sumOf(taxonomy.StotSE, "2")}, min: 10, emit: taxonomy.NewToken(taxonomy.StotSE, "2")},
		{terms: []term{sumOf(taxonomy.StotSE, "3")}, min: 20, emit: taxonomy.NewToken(taxonomy.StotSE, "3")},
	}, taxonomy.StotSE),

	ladderRule("specific target organ toxicity, repeated exposure", ladder{
		{terms: []term{sumOf(taxonomy.StotRE, "1")}, min: 10, emit: taxonomy.NewToken(taxonomy.StotRE, "1")},
		{terms: []term{sumOf(taxonomy.StotRE, "1")}, min: 1, below: 10, emit: taxonomy.NewToken(taxonomy.StotRE, "2")},
		{terms: []term{sumOf(taxonomy.StotRE, "2")}, min: 10, emit: taxonomy.NewToken(taxonomy.StotRE, "2")},
	}, taxonomy.StotRE),

	ladderRule("aspiration hazard", cutoffs(taxonomy.AspTox, categoryLimit{"1", 10}), taxonomy.AspTox),
	ladderRule("ozone layer", cutoffs(taxonomy.Ozone, categoryLimit{"1", 0.1}), taxonomy.Ozone),
}

func evalAcuteTox(_ context.Context, ev *evaluation) error {
	for _, r := range taxonomy.Routes() {
		ate := ComputeATE(ev.mixture, ev.facts, r)
		cat, ok := ATECategory(r, ate)
		ev.engine.logger.Debug("acute toxicity estimate", "route", r, "ate", ate, "category", cat)
		if ok {
			ev.emit(taxonomy.NewToken(taxonomy.AcuteTox, cat).WithQualifier(r.Qualifier()))
		}
	}
	return nil
}

// categorySums returns the summed percentage of substances carrying
// class c, per category.
func categorySums(m taxonomy.Mixture, c taxonomy.Class) map[string]float64 {
	sums := map[string]float64{}
	for _, cat := range c.Categories() {
		for _, s := range m.Substances {
			if s.HasToken(c, cat) {
				sums[cat] += s.Percentage
			}
		}
	}
	return sums
}

// dominant returns the category holding at least 80 % of the mixture
// while every other category of the class is absent.
func dominant(m taxonomy.Mixture, c taxonomy.Class, cats ...string) (string, bool) {
	sums := categorySums(m, c)
	for _, cat := range cats {
		if !tolerance.AlmostGE(80, sums[cat]) {
			continue
		}
		alone := true
		for _, other := range cats {
			if other != cat && !tolerance.AlmostZero(sums[other]) {
				alone = false
				break
			}
		}
		if alone {
			return cat, true
		}
	}
	return "", false
}

func evalFlamLiq(ctx context.Context, ev *evaluation) error {
	if cat, ok := dominant(ev.mixture, taxonomy.FlamLiq, "1", "2", "3", "4"); ok {
		ev.emit(taxonomy.NewToken(taxonomy.FlamLiq, cat))
		return nil
	}

	fp, err := ev.engine.askNumber(ctx, "Enter the flash point of the mixture in °C", "A number, e.g. 21.5")
	if err != nil {
		return err
	}
	switch {
	case fp > 60:
		ev.emit(taxonomy.NewToken(taxonomy.FlamLiq, "4"))
		return nil
	case tolerance.AlmostGE(23, fp) && tolerance.AlmostLE(fp, 60):
		ev.emit(taxonomy.NewToken(taxonomy.FlamLiq, "3"))
		return nil
	}

	bp, err := ev.engine.askNumber(ctx, "Enter the initial boiling point of the mixture in °C", "A number, e.g. 78")
	if err != nil {
		return err
	}
	if bp > 35 {
		ev.emit(taxonomy.NewToken(taxonomy.FlamLiq, "2"))
	} else {
		ev.emit(taxonomy.NewToken(taxonomy.FlamLiq, "1"))
	}
	return nil
}

func evalFlamSol(_ context.Context, ev *evaluation) error {
	if cat, ok := dominant(ev.mixture, taxonomy.FlamSol, "1", "2"); ok {
		ev.emit(taxonomy.NewToken(taxonomy.FlamSol, cat))
		return nil
	}
	ev.advise(taxonomy.FlamSol)
	return nil
}

func evalAquatic(_ context.Context, ev *evaluation) error {
	var acute float64
	var chronic [4]float64

	for i, s := range ev.mixture.Substances {
		p := s.Percentage
		if s.Has(taxonomy.AquaticAcute) {
			if m := ev.facts.MFactor(i); known(m) {
				acute += m * p
			}
		}

		switch {
		case s.HasToken(taxonomy.AquaticChronic, "1"):
			m := ev.facts.ChronicMFactor(i)
			if !known(m) {
				continue
			}
			chronic[0] += m * p
			chronic[1] += 10 * m * p
			chronic[2] += 100 * m * p
			chronic[3] += p
		case s.HasToken(taxonomy.AquaticChronic, "2"):
			chronic[1] += p
			chronic[2] += 10 * p
			chronic[3] += p
		case s.HasToken(taxonomy.AquaticChronic, "3"):
			chronic[2] += p
			chronic[3] += p
		case s.HasToken(taxonomy.AquaticChronic, "4"):
			chronic[3] += p
		}
	}

	ev.engine.logger.Debug("aquatic sums", "acute", acute, "chronic", chronic)
	if tolerance.AlmostGE(25, acute) {
		ev.emit(taxonomy.NewToken(taxonomy.AquaticAcute, "1"))
	}
	for k, sum := range chronic {
		if tolerance.AlmostGE(25, sum) {
			ev.emit(taxonomy.NewToken(taxonomy.AquaticChronic, taxonomy.AquaticChronic.Categories()[k]))
			break
		}
	}
	return nil
}
