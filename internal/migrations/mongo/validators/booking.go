package validators

import "go.mongodb.org/mongo-driver/bson"

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"requester_id",
			"slot_id",
			"status",
			"booked_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"requester_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 256,
			},

			"slot_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"status": bson.M{
				"enum": []string{"ACTIVE", "CANCELLED"},
			},

			"booked_at": bson.M{
				"bsonType": "date",
			},

			"cancelled_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
