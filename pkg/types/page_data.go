package types

type NavbarData struct {
	IsAuthenticated bool
	UserID          string
	UserEmail       string
}

type NavbarDataSetter interface {
	SetNavbarData(data NavbarData)
}

// NotificationSetter is implemented by page data that renders the session's
// live notifications.
type NotificationSetter interface {
	SetNotifications(n []Notification)
}

type BasePageData struct {
	Title         string
	Navbar        NavbarData
	Notifications []Notification
}

func (d *BasePageData) SetNavbarData(data NavbarData) {
	d.Navbar = data
}

func (d *BasePageData) SetNotifications(n []Notification) {
	d.Notifications = n
}

type HomePageData struct {
	BasePageData
	ApplicationTypes []ApplicationType
}

type LoginPageData struct {
	BasePageData
	Message string
	Error   string
	Email   string
}

type ConfirmPageData struct {
	BasePageData
	Heading     string
	Body        string
	Action      string
	CancelHref  string
	SubmitLabel string
}

type SubmittedPageData struct {
	BasePageData
	Heading     string
	Application *Application
}
