package layout

//go:generate go tool templ generate -path ..

// FlashMessage is a one-shot notice shown on the next page
type FlashMessage struct {
	Type    string // success, error, info
	Message string
}

// PageData is shared by every full page
type PageData struct {
	Title string
	Flash *FlashMessage
	// Admin is the signed-in administrator, empty when signed out
	Admin string
}
