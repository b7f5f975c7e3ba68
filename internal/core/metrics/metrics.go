package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	OTPIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_otp_issued_total", Help: "One-time codes issued",
	})
	OTPVerifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_otp_verifications_total", Help: "OTP verification attempts by result",
	}, []string{"result"})
	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_logins_total", Help: "Login attempts by result",
	}, []string{"result"})
	TasksAssigned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portal_tasks_assigned_total", Help: "Task rows created by assignment",
	})
	TaskSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_task_submissions_total", Help: "Task submissions by result",
	}, []string{"result"})
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portal_notifications_total", Help: "Notifications by kind and result",
	}, []string{"kind", "result"})
)

func init() {
	prometheus.MustRegister(OTPIssued, OTPVerifications, Logins, TasksAssigned, TaskSubmissions, Notifications)
}
