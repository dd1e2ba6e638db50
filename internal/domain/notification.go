package domain

import (
	"fmt"
)

// NotificationClass distinguishes lead-time reminders from status-change
// notifications; the two classes never share dedup key space.
type NotificationClass int

const (
	ClassLeadTime NotificationClass = iota
	ClassScrub
	ClassOutcome
)

func (c NotificationClass) String() string {
	switch c {
	case ClassLeadTime:
		return "leadtime"
	case ClassScrub:
		return "scrub"
	case ClassOutcome:
		return "outcome"
	default:
		return "unknown"
	}
}

// SubscriberKind tags the subscriber side of a dispatch target.
type SubscriberKind int

const (
	SubscriberGuild SubscriberKind = iota
	SubscriberUser
)

func (k SubscriberKind) String() string {
	if k == SubscriberUser {
		return "user"
	}
	return "guild"
}

// DueReminder is one notification instruction produced by the scheduler.
// Delivery is the dispatcher's problem; the scheduler only guarantees each
// Key is emitted at most once per launch record lifetime.
type DueReminder struct {
	Launch       LaunchRecord
	Class        NotificationClass
	Kind         SubscriberKind
	SubscriberID int64
	ChannelID    int64 // guild target channel; 0 for a direct message
	Minutes      int64 // lead-time bucket; 0 for status-change classes
	Status       int   // new status code; 0 for lead-time class
	Mentions     []int64
}

// Key returns the dedup key. Lead-time keys are bucketed by minutes;
// status-change keys carry the class and the new status code instead, so a
// later second scrub of the same launch can notify again.
func (d DueReminder) Key() string {
	if d.Class == ClassLeadTime {
		return fmt.Sprintf("%d|%s|%d|%d", d.Launch.ID, d.Kind, d.SubscriberID, d.Minutes)
	}
	return fmt.Sprintf("%d|%s|%d|%s|%d", d.Launch.ID, d.Kind, d.SubscriberID, d.Class, d.Status)
}
