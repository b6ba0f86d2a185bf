package views

import (
	"accessgate/internal/router"
	"net/http"
)

type staticPage struct {
	Title       string
	Description string
}

// pages are the views without data of their own.
var pages = map[string]staticPage{ //nolint: gochecknoglobals
	router.ViewAdminDashboard:    {"Admin Dashboard", "Overview of residents, guests and gate activity."},
	router.ViewUsersManagement:   {"Users Management", "Residents, security staff and administrators."},
	router.ViewAllGuestLogs:      {"All Guest Logs", "Every guest entry recorded at the gate."},
	router.ViewAllQrCodes:        {"All QR Codes", "Guest passes issued by all households."},
	router.ViewSystemManagement:  {"System Management", "Gate devices and console settings."},
	router.ViewUserDashboard:     {"Dashboard", "Your guest passes and recent visits."},
	router.ViewQrCodeGenerate:    {"Generate QR Code", "Issue a guest pass for an upcoming visit."},
	router.ViewQRCodeManagement:  {"Manage QR Codes", "Review and revoke the guest passes you issued."},
	router.ViewMyLogs:            {"My Logs", "Your own gate entries."},
	router.ViewHouseholdLogs:     {"Household Logs", "Gate entries of your household."},
	router.ViewMyGuestLogs:       {"My Guest Logs", "Entries of guests you invited."},
	router.ViewResidentFAQ:       {"Resident FAQ", "Answers to common resident questions."},
	router.ViewMyNotification:    {"Notifications", "Arrivals and pass updates."},
	router.ViewContactUs:         {"Contact Us", "Reach the management office."},
	router.ViewSecurityDashboard: {"Security Dashboard", "Expected guests and live gate activity."},
	router.ViewSecurityFAQ:       {"Security FAQ", "Procedures for gate staff."},
	router.ViewQRScan:            {"Scan QR Code", "Scan a guest pass to verify it."},
	router.ViewUserLogs:          {"User Logs", "Gate entries by resident."},
}

// titleOf returns the display title of view.
func titleOf(view string) string {
	switch view {
	case router.ViewLogin:
		return "Sign in"
	case router.ViewSecurityLogs:
		return "Security Logs"
	case router.ViewViewQRCode:
		return "QR Code"
	}
	if p, ok := pages[view]; ok {
		return p.Title
	}

	return view
}

func (s *Set) static(p staticPage) Handler {
	return func(w http.ResponseWriter, r *http.Request, c Context) {
		s.render(r.Context(), w, http.StatusOK, "page", s.page(c, p.Title, p))
	}
}
