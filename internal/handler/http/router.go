package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/cmlabs-hris/attendance-engine-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type Handlers struct {
	Attendance AttendanceHandler
	Shift      ShiftHandler
	Correction CorrectionHandler
	Geofence   GeofenceHandler
	Summary    SummaryHandler
	Alert      AlertHandler
	Report     ReportHandler
	Calendar   CalendarHandler
}

func NewRouter(jwtService jwt.Service, env string, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "attendance-engine"),
		slog.String("version", "v1.0.0"),
		slog.String("env", env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok\n"))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.Identity(jwtService.JWTAuth()))

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Get("/my", h.Attendance.MyAttendance)
				r.Get("/{id}", h.Attendance.Get)

				// Admin and manager only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdministrative)
					r.Get("/", h.Attendance.List)
					r.Post("/mark-absent", h.Attendance.MarkAbsent)
					r.Post("/mark-on-leave", h.Attendance.MarkOnLeave)
					r.Post("/bulk/check-in", h.Attendance.BulkCheckIn)
					r.Post("/bulk/mark-absent", h.Attendance.BulkMarkAbsent)
				})

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/manual", h.Attendance.ManualEntry)
					r.Delete("/{id}", h.Attendance.Purge)
				})
			})

			r.Route("/shifts", func(r chi.Router) {
				r.Route("/policies", func(r chi.Router) {
					r.Get("/", h.Shift.ListPolicies)
					r.Get("/{id}", h.Shift.GetPolicy)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireAdmin)
						r.Post("/", h.Shift.CreatePolicy)
						r.Put("/{id}", h.Shift.UpdatePolicy)
					})
				})

				r.Route("/assignments", func(r chi.Router) {
					r.Use(middleware.RequireAdministrative)
					r.Post("/", h.Shift.AssignShift)
					r.Get("/{employeeID}", h.Shift.ListAssignments)
				})
			})

			r.Route("/corrections", func(r chi.Router) {
				r.Post("/", h.Correction.Request)
				r.Get("/my", h.Correction.MyRequests)
				r.Get("/{id}", h.Correction.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdministrative)
					r.Get("/", h.Correction.List)
					r.Post("/{id}/review", h.Correction.Review)
				})
			})

			r.Route("/geofences", func(r chi.Router) {
				r.Get("/", h.Geofence.List)
				r.Get("/classify", h.Geofence.Classify)
				r.Get("/{id}", h.Geofence.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Geofence.Create)
					r.Put("/{id}", h.Geofence.Update)
					r.Delete("/{id}", h.Geofence.Delete)
				})
			})

			r.Route("/summaries", func(r chi.Router) {
				r.Get("/", h.Summary.List)
				r.Get("/{employeeID}", h.Summary.Get)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/generate", h.Summary.Generate)
					r.Post("/generate-all", h.Summary.GenerateAll)
				})
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Use(middleware.RequireAdministrative)
				r.Get("/", h.Alert.List)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/export", h.Report.Export)
				r.Get("/export/csv", h.Report.ExportCSV)
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", h.Calendar.ListHolidays)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Post("/", h.Calendar.AddHoliday)
					r.Delete("/{id}", h.Calendar.RemoveHoliday)
				})
			})
		})
	})

	return r
}
