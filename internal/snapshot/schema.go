package snapshot

const schemaURL = "todo-snapshot.json"

const schemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["todos"],
  "properties": {
    "todos": {
      "type": "array",
      "items": { "$ref": "#/$defs/todo" }
    },
    "currentlyDoing": {
      "oneOf": [
        { "type": "null" },
        { "$ref": "#/$defs/todo" }
      ]
    }
  },
  "$defs": {
    "timestamp": { "type": "string", "format": "date-time" },
    "todo": {
      "type": "object",
      "required": ["id", "title", "description", "category", "status", "createdAt", "updatedAt"],
      "properties": {
        "id": { "type": "string", "format": "uuid" },
        "title": { "type": "string" },
        "description": { "type": "string" },
        "category": { "type": "string" },
        "status": { "enum": ["in-progress", "completed", "archived"] },
        "createdAt": { "$ref": "#/$defs/timestamp" },
        "updatedAt": { "$ref": "#/$defs/timestamp" },
        "completedAt": {
          "oneOf": [
            { "type": "null" },
            { "$ref": "#/$defs/timestamp" }
          ]
        }
      }
    }
  }
}`
