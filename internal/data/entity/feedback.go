package entity

type Feedback struct {
	BaseSimple
	ProductID string
	Feedback  string
	Rating    int // 1-5
	Name      string
	Contact   string
	Address   string
}
