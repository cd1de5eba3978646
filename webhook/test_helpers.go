package webhook

import "github.com/stretchr/testify/mock"

// MatchPatch creates a custom matcher for patch arguments in mocks
func MatchPatch(matcher func(Patch) bool) interface{} {
	return mock.MatchedBy(matcher)
}

// MatchDelivery creates a custom matcher for delivery attempt arguments in mocks
func MatchDelivery(matcher func(Delivery) bool) interface{} {
	return mock.MatchedBy(matcher)
}

// MatchLogEntry creates a custom matcher for event log arguments in mocks
func MatchLogEntry(matcher func(LogEntry) bool) interface{} {
	return mock.MatchedBy(matcher)
}
