package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"customer_id",
			"service_id",
			"customer_address",
			"status",
			"booking_time",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"customer_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"service_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"preferred_staff_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"assigned_staff_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"customer_address": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 200,
			},

			"status": bson.M{
				"enum": []string{"pending", "approved", "completed", "rejected", "canceled"},
			},

			"booking_date": bson.M{
				"bsonType": "date",
			},

			"booking_time": bson.M{
				"bsonType": "date",
			},

			"total_cost": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"actual_amount_received": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
			},

			"completion_time": bson.M{
				"bsonType": []string{"date", "null"},
			},

			"rejection_reason": bson.M{
				"bsonType":  "string",
				"maxLength": 500,
			},

			"staff_discount": bson.M{
				"bsonType": []string{"double", "int", "long", "decimal"},
				"minimum":  0,
				"maximum":  100,
			},
		},
	},
}
