package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AuditAction string

const (
	AuditActionRegister AuditAction = "REGISTER"
	AuditActionLogin    AuditAction = "LOGIN"
	AuditActionApprove  AuditAction = "APPROVE"
	AuditActionReject   AuditAction = "REJECT"
	AuditActionPassword AuditAction = "PASSWORD_CHANGE"
	AuditActionSeed     AuditAction = "SEED"
)

type Change struct {
	Old interface{} `bson:"old" json:"old"`
	New interface{} `bson:"new" json:"new"`
}

type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Action    AuditAction        `bson:"action" json:"action"`
	Subject   string             `bson:"subject" json:"subject"`     // collection the record lives in
	RecordID  string             `bson:"record_id" json:"record_id"` // id of the record acted on
	ActorID   string             `bson:"actor_id" json:"actor_id"`   // user who performed the action
	Changes   map[string]Change  `bson:"changes,omitempty" json:"changes,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

type Log struct {
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller" json:"caller"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
