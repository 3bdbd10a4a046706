package email

// Email представляет структуру email сообщения
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}
