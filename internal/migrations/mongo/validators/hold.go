package validators

import "go.mongodb.org/mongo-driver/bson"

var HoldValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"property_id",
			"units",
			"released",
			"reserved_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "string",
			},
			"property_id": bson.M{
				"bsonType": "string",
			},
			"units": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  1,
			},
			"released": bson.M{
				"bsonType": "bool",
			},
			"reserved_at": bson.M{
				"bsonType": "date",
			},
			"released_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
