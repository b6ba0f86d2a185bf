package router

import "accessgate/pkg/domain"

// View component names referenced by the route table.
const (
	ViewLogin             = "LoginView"
	ViewAdminDashboard    = "AdminDashboard"
	ViewUsersManagement   = "UsersManagement"
	ViewSecurityLogs      = "SecurityLogs"
	ViewAllGuestLogs      = "AllGuestLogs"
	ViewAllQrCodes        = "AllQrCodes"
	ViewSystemManagement  = "SystemManagement"
	ViewUserDashboard     = "UserDashboard"
	ViewQrCodeGenerate    = "QrCodeGenerate"
	ViewQRCodeManagement  = "QRCodeManagement"
	ViewMyLogs            = "MyLogs"
	ViewHouseholdLogs     = "HouseholdLogs"
	ViewMyGuestLogs       = "MyGuestLogs"
	ViewResidentFAQ       = "ResidentFAQ"
	ViewMyNotification    = "MyNotification"
	ViewContactUs         = "ContactUs"
	ViewSecurityDashboard = "SecurityDashboard"
	ViewSecurityFAQ       = "SecurityFAQ"
	ViewQRScan            = "QRScan"
	ViewUserLogs          = "UserLogs"
	ViewViewQRCode        = "ViewQRCode"
)

// Route names used for navigation.
const (
	NameHome              = "home"
	NameDashboard         = "dashboard"
	NameUserDashboard     = "user-dashboard"
	NameSecurityDashboard = "security-dashboard"
	NameSecurityLogs      = "security-logs"
	NameViewQR            = "view-qr"
)

// ParamDocumentID is the path parameter of the QR code view.
const ParamDocumentID = "documentId"

// Routes returns the console route table.
func Routes() []Route {
	admin := []domain.Role{domain.RoleAdmin}
	security := []domain.Role{domain.RoleSecurity, domain.RoleAdmin}

	return []Route{
		{Path: "/", Name: NameHome, View: ViewLogin, Public: true},
		{Path: "/login", Redirect: "/"},

		// admin
		{Path: "/dashboard", Name: NameDashboard, View: ViewAdminDashboard, Roles: admin},
		{Path: "/users-management", Name: "users-management", View: ViewUsersManagement, Roles: admin},
		{Path: "/security-logs", Name: NameSecurityLogs, View: ViewSecurityLogs, Roles: admin},
		{Path: "/all-guest-logs", Name: "all-guest-logs", View: ViewAllGuestLogs, Roles: admin},
		{Path: "/all-qr-codes", Name: "all-qr-codes", View: ViewAllQrCodes, Roles: admin},
		{Path: "/system-management", Name: "system-management", View: ViewSystemManagement, Roles: admin},

		// resident
		{Path: "/user-dashboard", Name: NameUserDashboard, View: ViewUserDashboard},
		{Path: "/generate-qr", Name: "generate-qr", View: ViewQrCodeGenerate},
		{Path: "/manage-qr", Name: "manage-qr", View: ViewQRCodeManagement},
		{Path: "/my-logs", Name: "my-logs", View: ViewMyLogs},
		{Path: "/household-logs", Name: "household-logs", View: ViewHouseholdLogs},
		{Path: "/my-guest-logs", Name: "my-guest-logs", View: ViewMyGuestLogs},
		{Path: "/resident-faq", Name: "resident-faq", View: ViewResidentFAQ},
		{Path: "/user-notification", Name: "user-notification", View: ViewMyNotification},
		{Path: "/contact-us", Name: "contact-us", View: ViewContactUs},

		// security
		{Path: "/security-dashboard", Name: NameSecurityDashboard, View: ViewSecurityDashboard, Roles: security},
		{Path: "/security-faq", Name: "security-faq", View: ViewSecurityFAQ, Roles: security},
		{Path: "/qr-scan", Name: "qr-scan", View: ViewQRScan, Roles: security},
		{Path: "/user-logs", Name: "user-logs", View: ViewUserLogs, Roles: security},

		{Path: "/view-qr/:" + ParamDocumentID, Name: NameViewQR, View: ViewViewQRCode, Public: true},
	}
}

// DashboardFor returns the name of the landing route for role.
func DashboardFor(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return NameDashboard
	case domain.RoleSecurity:
		return NameSecurityDashboard
	default:
		return NameUserDashboard
	}
}
