package report

// Schema is the JSON Schema (Draft 2020-12) for the clpmix
// classification JSON output. It documents the structure returned by
// WriteJSON.
const Schema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://github.com/unbound-force/clpmix/classification-report.schema.json",
  "title": "CLP Mixture Classification Report",
  "description": "Output schema for clpmix classify --format=json",
  "type": "object",
  "required": ["version", "mixture", "classification", "advisories", "label"],
  "properties": {
    "version": {
      "type": "string",
      "description": "Schema version (semver)"
    },
    "mixture": { "$ref": "#/$defs/Mixture" },
    "classification": {
      "type": "array",
      "description": "Mixture hazard classification tokens in rule order",
      "items": { "type": "string" }
    },
    "advisories": {
      "type": "array",
      "items": { "$ref": "#/$defs/Advisory" }
    },
    "label": { "$ref": "#/$defs/Label" }
  },
  "$defs": {
    "Mixture": {
      "type": "object",
      "required": ["total_percentage", "substances"],
      "properties": {
        "name": { "type": "string" },
        "total_percentage": { "type": "number", "minimum": 0 },
        "substances": {
          "type": "array",
          "items": { "$ref": "#/$defs/Substance" }
        }
      }
    },
    "Substance": {
      "type": "object",
      "required": ["percentage", "classification"],
      "properties": {
        "cas": { "type": "string" },
        "name": { "type": "string" },
        "percentage": { "type": "number", "minimum": 0, "maximum": 100 },
        "classification": {
          "type": "array",
          "items": { "type": "string" }
        }
      }
    },
    "Advisory": {
      "type": "object",
      "required": ["class", "section", "message"],
      "properties": {
        "class": { "type": "string" },
        "section": {
          "type": "string",
          "description": "CLP Annex I section to consult"
        },
        "message": { "type": "string" }
      }
    },
    "Label": {
      "type": "object",
      "required": ["pictograms", "signal_word", "hazard_statements", "precautionary_statements"],
      "properties": {
        "pictograms": {
          "type": "array",
          "items": { "type": "string", "pattern": "^GHS0[1-9]$" }
        },
        "signal_word": {
          "type": "string",
          "enum": ["None", "Warning", "Danger"]
        },
        "hazard_statements": {
          "type": "array",
          "items": { "$ref": "#/$defs/Statement" }
        },
        "precautionary_statements": {
          "type": "array",
          "items": { "$ref": "#/$defs/Statement" }
        },
        "unlabelled": {
          "type": "array",
          "items": { "type": "string" }
        }
      }
    },
    "Statement": {
      "type": "object",
      "required": ["code", "text"],
      "properties": {
        "code": {
          "type": "string",
          "pattern": "^(EU)?[HP][0-9]{3}[A-Za-z]*(\\+P[0-9]{3})*$"
        },
        "text": { "type": "string" }
      }
    }
  }
}`
