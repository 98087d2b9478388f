package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"guest_name",
			"check_in",
			"check_out",
			"units",
			"driver_service",
			"price",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},

			"property_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 64,
			},

			"guest_name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 120,
			},

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"units": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},

			"driver_service": bson.M{
				"bsonType": "bool",
			},

			"car_tier": bson.M{
				"bsonType": "string",
				"enum":     []string{"standard", "comfort", "luxury"},
			},

			"price": bson.M{
				"bsonType": "object",
				"required": []string{"nights", "accommodation", "total", "quote_pending"},
				"properties": bson.M{
					"nights":        bson.M{"bsonType": []string{"int", "long"}, "minimum": 1},
					"accommodation": bson.M{"bsonType": "long", "minimum": 0},
					"total":         bson.M{"bsonType": "long", "minimum": 0},
					"quote_pending": bson.M{"bsonType": "bool"},
				},
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"temporary",
					"confirmed",
					"cancelled",
					"expired",
				},
			},

			"expires_at": bson.M{
				"bsonType": "date",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
