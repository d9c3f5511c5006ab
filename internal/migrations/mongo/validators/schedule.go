package validators

import "go.mongodb.org/mongo-driver/bson"

var WorkScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"staff_id", "days", "created_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id": bson.M{"bsonType": "objectId"},
			"staff_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},
			"days": bson.M{
				"bsonType": "array",
				"minItems": 7,
				"maxItems": 7,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"day", "start_time", "end_time"},
					"properties": bson.M{
						"day": bson.M{
							"enum": []string{
								"Monday", "Tuesday", "Wednesday", "Thursday",
								"Friday", "Saturday", "Sunday",
							},
						},
						// Empty string means not working that day.
						"start_time": bson.M{
							"bsonType": "string",
							"pattern":  `^(([01][0-9]|2[0-3]):[0-5][0-9])?$`,
						},
						"end_time": bson.M{
							"bsonType": "string",
							"pattern":  `^(([01][0-9]|2[0-3]):[0-5][0-9])?$`,
						},
					},
				},
			},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
