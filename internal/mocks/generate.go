// Package mocks provides mock implementations for testing the console services.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our port interfaces.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	api := mocks.NewMockConsoleAPI(ctrl)
//	api.EXPECT().ListMembers(gomock.Any(), "beta").Return(members, nil)
package mocks

// Generate mock for ConsoleAPI interface from internal/ports package.
// Login, ListMembers, AddMember, GetSettings, UpdateSettings, ActiveConversations, ActiveFulfillments
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=console_api_mock.go github.com/panai/console/internal/ports ConsoleAPI

// Generate mock for LeadStore interface from internal/ports package.
// Create, List
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=lead_store_mock.go github.com/panai/console/internal/ports LeadStore
