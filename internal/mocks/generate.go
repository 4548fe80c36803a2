package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name JobQueue --dir ../usecase --output usecase --outpkg usecasemock --filename job_queue_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name ScopeRebuilder --dir ../usecase --output usecase --outpkg usecasemock --filename scope_rebuilder_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RebuildDispatcher --dir ../usecase --output usecase --outpkg usecasemock --filename rebuild_dispatcher_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/jobscheduler --output domain/jobscheduler --outpkg jobschedulermock --filename repository_mock.go
