package validators

import "go.mongodb.org/mongo-driver/bson"

var AccountValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"name", "email", "password_hash", "role", "active", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},
			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 100,
			},
			"email": bson.M{
				"bsonType": "string",
				"pattern":  `^[^@\s]+@[^@\s]+\.[^@\s]+$`,
			},
			"phone":         bson.M{"bsonType": "string"},
			"address":       bson.M{"bsonType": "string"},
			"password_hash": bson.M{"bsonType": "string"},
			"role": bson.M{
				"enum": []string{"customer", "staff", "admin", "manager"},
			},
			"service_ids": bson.M{
				"bsonType": "array",
				"items": bson.M{
					"bsonType":  "string",
					"minLength": 24,
					"maxLength": 24,
				},
			},
			"active": bson.M{"bsonType": "bool"},
			"discount_percentage": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
				"maximum":  100,
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
