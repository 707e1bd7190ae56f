package domain

const (
	// Edition table headers after normalization
	HEADER_CARD_NUMBER     = "Card Number"
	HEADER_SET_NUMBER      = "Set Number"
	HEADER_NAME            = "Name"
	HEADER_RARITY          = "Rarity"
	HEADER_CATEGORY        = "Category"
	HEADER_COLLECTION_NAME = "Collection Name"

	// Queue subjects
	DEFAULT_JOBS_SUBJECT     = "scrape-jobs"
	DEFAULT_FINISHED_SUFFIX  = "-finished"
	DEFAULT_JOBS_STREAM_NAME = "SCRAPE_JOBS"

	// Notifier hub target for completion events
	NOTIFY_TARGET_SCRAPE_FINISHED = "scrapeFinished"
)

// FinishedSubject returns the completion subject paired with a jobs subject
func FinishedSubject(jobsSubject string) string {
	return jobsSubject + DEFAULT_FINISHED_SUFFIX
}
