package validators

import "go.mongodb.org/mongo-driver/bson"

// PropertyValidator also enforces 0 <= available_units <= total_units, so a
// counter can never be written out of range even by a manual update.
var PropertyValidator = bson.M{
	"$and": bson.A{
		bson.M{
			"$jsonSchema": bson.M{
				"bsonType": "object",
				"required": []string{
					"title",
					"price_per_night",
					"total_units",
					"available_units",
					"created_at",
				},
				"additionalProperties": true,

				"properties": bson.M{
					"_id": bson.M{
						"bsonType": "string",
					},
					"title": bson.M{
						"bsonType":  "string",
						"minLength": 2,
						"maxLength": 200,
					},
					"price_per_night": bson.M{
						"bsonType": "long",
						"minimum":  0,
					},
					"total_units": bson.M{
						"bsonType": []string{"int", "long"},
						"minimum":  0,
					},
					"available_units": bson.M{
						"bsonType": []string{"int", "long"},
						"minimum":  0,
					},
					"created_at": bson.M{
						"bsonType": "date",
					},
				},
			},
		},
		bson.M{
			"$expr": bson.M{"$lte": bson.A{"$available_units", "$total_units"}},
		},
	},
}
