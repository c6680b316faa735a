package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/mrson-dev/crm-ju-ai/api/handler"
)

type Handlers struct {
	Auth      *apiHandler.AuthHandler
	Profile   *apiHandler.ProfileHandler
	Client    *apiHandler.ClientHandler
	Case      *apiHandler.CaseHandler
	Document  *apiHandler.DocumentHandler
	Template  *apiHandler.TemplateHandler
	Task      *apiHandler.TaskHandler
	Timesheet *apiHandler.TimesheetHandler
	Billing   *apiHandler.BillingHandler
	Stats     *apiHandler.StatsHandler
	Health    *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))

	// Protected routes
	r.GET("/api/v1/profile", authMiddleware(handlers.Profile.GetProfile))
	r.PUT("/api/v1/profile", authMiddleware(handlers.Profile.UpdateProfile))

	r.GET("/api/v1/clients", authMiddleware(handlers.Client.GetClients))
	r.GET("/api/v1/clients/search", authMiddleware(handlers.Client.SearchClients))
	r.GET("/api/v1/clients/count", authMiddleware(handlers.Client.CountClients))
	r.POST("/api/v1/clients", authMiddleware(handlers.Client.CreateClient))
	r.GET("/api/v1/clients/{id}", authMiddleware(handlers.Client.GetClient))
	r.PUT("/api/v1/clients/{id}", authMiddleware(handlers.Client.UpdateClient))
	r.DELETE("/api/v1/clients/{id}", authMiddleware(handlers.Client.DeleteClient))

	r.GET("/api/v1/cases", authMiddleware(handlers.Case.GetCases))
	r.GET("/api/v1/cases/count-by-status", authMiddleware(handlers.Case.CountByStatus))
	r.POST("/api/v1/cases", authMiddleware(handlers.Case.CreateCase))
	r.GET("/api/v1/cases/{id}", authMiddleware(handlers.Case.GetCase))
	r.PUT("/api/v1/cases/{id}", authMiddleware(handlers.Case.UpdateCase))
	r.DELETE("/api/v1/cases/{id}", authMiddleware(handlers.Case.DeleteCase))

	r.GET("/api/v1/documents", authMiddleware(handlers.Document.GetDocuments))
	r.POST("/api/v1/documents", authMiddleware(handlers.Document.CreateDocument))
	r.GET("/api/v1/documents/{id}", authMiddleware(handlers.Document.GetDocument))
	r.PUT("/api/v1/documents/{id}", authMiddleware(handlers.Document.UpdateDocument))
	r.DELETE("/api/v1/documents/{id}", authMiddleware(handlers.Document.DeleteDocument))

	r.GET("/api/v1/templates", authMiddleware(handlers.Template.List))
	r.GET("/api/v1/templates/search", authMiddleware(handlers.Template.Search))
	r.POST("/api/v1/templates", authMiddleware(handlers.Template.Create))
	r.GET("/api/v1/templates/{id}", authMiddleware(handlers.Template.Get))
	r.PUT("/api/v1/templates/{id}", authMiddleware(handlers.Template.Update))
	r.DELETE("/api/v1/templates/{id}", authMiddleware(handlers.Template.Delete))
	r.POST("/api/v1/templates/{id}/favorite", authMiddleware(handlers.Template.ToggleFavorite))
	r.POST("/api/v1/templates/{id}/render", authMiddleware(handlers.Template.Render))

	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.GET("/api/v1/tasks/overdue", authMiddleware(handlers.Task.GetOverdue))
	r.GET("/api/v1/tasks/stats", authMiddleware(handlers.Task.GetStats))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.POST("/api/v1/tasks/batch/complete", authMiddleware(handlers.Task.BatchComplete))
	r.POST("/api/v1/tasks/batch/status", authMiddleware(handlers.Task.BatchStatus))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.GetTask))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.UpdateTask))
	r.POST("/api/v1/tasks/{id}/complete", authMiddleware(handlers.Task.CompleteTask))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))

	r.GET("/api/v1/taskscore/ranking", authMiddleware(handlers.Task.GetRanking))
	r.GET("/api/v1/taskscore/my-score", authMiddleware(handlers.Task.GetMyScore))

	r.GET("/api/v1/time-entries", authMiddleware(handlers.Timesheet.GetEntries))
	r.GET("/api/v1/time-entries/summary", authMiddleware(handlers.Timesheet.GetSummary))
	r.POST("/api/v1/time-entries", authMiddleware(handlers.Timesheet.CreateEntry))
	r.GET("/api/v1/time-entries/{id}", authMiddleware(handlers.Timesheet.GetEntry))
	r.PUT("/api/v1/time-entries/{id}", authMiddleware(handlers.Timesheet.UpdateEntry))
	r.DELETE("/api/v1/time-entries/{id}", authMiddleware(handlers.Timesheet.DeleteEntry))

	r.GET("/api/v1/fees", authMiddleware(handlers.Billing.GetFees))
	r.POST("/api/v1/fees", authMiddleware(handlers.Billing.CreateFee))
	r.GET("/api/v1/fees/{id}", authMiddleware(handlers.Billing.GetFee))
	r.PUT("/api/v1/fees/{id}", authMiddleware(handlers.Billing.UpdateFee))
	r.DELETE("/api/v1/fees/{id}", authMiddleware(handlers.Billing.DeleteFee))
	r.GET("/api/v1/fees/{id}/payments", authMiddleware(handlers.Billing.GetFeePayments))
	r.POST("/api/v1/fees/{id}/payments", authMiddleware(handlers.Billing.RegisterFeePayment))

	r.GET("/api/v1/expenses", authMiddleware(handlers.Billing.GetExpenses))
	r.POST("/api/v1/expenses", authMiddleware(handlers.Billing.CreateExpense))
	r.GET("/api/v1/expenses/{id}", authMiddleware(handlers.Billing.GetExpense))
	r.PUT("/api/v1/expenses/{id}", authMiddleware(handlers.Billing.UpdateExpense))
	r.DELETE("/api/v1/expenses/{id}", authMiddleware(handlers.Billing.DeleteExpense))
	r.POST("/api/v1/expenses/{id}/approve", authMiddleware(handlers.Billing.ApproveExpense))

	r.GET("/api/v1/invoices", authMiddleware(handlers.Billing.GetInvoices))
	r.POST("/api/v1/invoices", authMiddleware(handlers.Billing.CreateInvoice))
	r.GET("/api/v1/invoices/{id}", authMiddleware(handlers.Billing.GetInvoice))
	r.POST("/api/v1/invoices/{id}/send", authMiddleware(handlers.Billing.SendInvoice))
	r.POST("/api/v1/invoices/{id}/cancel", authMiddleware(handlers.Billing.CancelInvoice))
	r.GET("/api/v1/invoices/{id}/payments", authMiddleware(handlers.Billing.GetInvoicePayments))
	r.POST("/api/v1/invoices/{id}/payments", authMiddleware(handlers.Billing.RegisterInvoicePayment))

	r.GET("/api/v1/stats/dashboard", authMiddleware(handlers.Stats.GetDashboard))
	r.POST("/api/v1/stats/dashboard/invalidate", authMiddleware(handlers.Stats.InvalidateDashboard))

	return r
}
