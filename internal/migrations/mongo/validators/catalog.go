package validators

import "go.mongodb.org/mongo-driver/bson"

var CategoryValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"name",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"name": bson.M{
				"bsonType":  "string",
				"minLength": 2,
				"maxLength": 256,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var TimeWindowValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"start_time",
			"end_time",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"label": bson.M{
				"bsonType":  "string",
				"maxLength": 64,
			},

			"start_time": bson.M{
				"bsonType": "string",
				"pattern":  "^\\d{2}:\\d{2}$",
			},

			"end_time": bson.M{
				"bsonType": "string",
				"pattern":  "^\\d{2}:\\d{2}$",
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
