package entity

type ContactMessage struct {
	BaseSimple
	Name    string
	Email   string
	Message string
}
