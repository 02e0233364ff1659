package domain

// Principal is the authenticated caller of an admin route.
type Principal struct {
	Subject string
	Admin   bool
}
