package services

// ServiceContainer holds instances of all the application services.
// It is the entry point used by handlers, the scheduler and the CLI.
type ServiceContainer struct {
	Ingestion IngestionSvc
	Notifier  ThresholdNotifierSvc
	Rates     RatesSvcFacade
	Tracking  TrackingSvcFacade
	Users     UserSvcFacade
}
