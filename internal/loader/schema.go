package loader

// MixtureSchema is the JSON Schema (Draft 2020-12) for mixture input
// files. YAML files are checked against it after conversion to JSON.
const MixtureSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/clpmix/mixture.schema.json",
  "title": "CLP Mixture",
  "description": "Input schema for clpmix classify",
  "type": "object",
  "required": ["substances"],
  "additionalProperties": false,
  "properties": {
    "name": {
      "type": "string",
      "description": "Display name of the mixture"
    },
    "substances": {
      "type": "array",
      "items": { "$ref": "#/$defs/Substance" }
    }
  },
  "$defs": {
    "Substance": {
      "type": "object",
      "required": ["percentage"],
      "additionalProperties": false,
      "properties": {
        "cas": {
          "type": "string",
          "description": "CAS registry number, used to look up reference data"
        },
        "name": { "type": "string" },
        "percentage": {
          "type": "number",
          "minimum": 0,
          "maximum": 100,
          "description": "Mass percentage in the mixture"
        },
        "classification": {
          "type": "array",
          "description": "Hazard classification tokens, e.g. \"Skin Corr. 1B\"",
          "items": { "type": "string", "minLength": 1 }
        }
      }
    }
  }
}`

// SubstancesSchema is the JSON Schema (Draft 2020-12) for substance
// reference files imported into the store.
const SubstancesSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/clpmix/substances.schema.json",
  "title": "CLP Substance Reference Data",
  "type": "object",
  "required": ["substances"],
  "additionalProperties": false,
  "properties": {
    "substances": {
      "type": "array",
      "items": { "$ref": "#/$defs/Substance" }
    }
  },
  "$defs": {
    "Substance": {
      "type": "object",
      "required": ["cas"],
      "additionalProperties": false,
      "properties": {
        "cas": { "type": "string", "minLength": 1 },
        "name": { "type": "string" },
        "description": { "type": "string" },
        "ec_number": { "type": "string" },
        "classification": {
          "type": "array",
          "items": { "type": "string", "minLength": 1 }
        },
        "details_url": { "type": "string" },
        "source": { "type": "string" },
        "m_factor": { "type": "number", "minimum": 1 },
        "m_chronic_factor": { "type": "number", "minimum": 1 },
        "hazard_codes": {
          "type": "object",
          "description": "Acute toxicity hazard codes keyed by token, e.g. \"Acute Tox. 3\"",
          "additionalProperties": {
            "type": "array",
            "minItems": 1,
            "items": { "type": "string", "pattern": "^H3[013][012]$" }
          }
        }
      }
    }
  }
}`

// AnswersSchema is the JSON Schema (Draft 2020-12) for scripted answer
// files.
const AnswersSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/clpmix/answers.schema.json",
  "title": "CLP Classification Answers",
  "type": "object",
  "required": ["answers"],
  "additionalProperties": false,
  "properties": {
    "answers": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["match", "answer"],
        "additionalProperties": false,
        "properties": {
          "match": {
            "type": "string",
            "minLength": 1,
            "description": "Case-insensitive fragment of the question"
          },
          "answer": { "type": ["string", "number"] }
        }
      }
    }
  }
}`
