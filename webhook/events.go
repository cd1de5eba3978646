package webhook

// Event types recognised by the default configuration; the engine treats them as opaque strings
const (
	EventReportGenerated      = "report.generated"
	EventDoctorSearched       = "doctor.searched"
	EventFavoriteAdded        = "favorite.added"
	EventFavoriteRemoved      = "favorite.removed"
	EventExportCompleted      = "export.completed"
	EventCollaborationStarted = "collaboration.started"
	EventUserActivity         = "user.activity"

	// EventTest is only used by TestWebhook
	EventTest = "test.webhook"
)

// DefaultEvents lists the event vocabulary offered to subscribers
var DefaultEvents = []string{
	EventReportGenerated,
	EventDoctorSearched,
	EventFavoriteAdded,
	EventFavoriteRemoved,
	EventExportCompleted,
	EventCollaborationStarted,
	EventUserActivity,
}
