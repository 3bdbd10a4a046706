package email

// Provider определяет интерфейс для отправки email.
// Все уведомления отправляются best-effort: ошибка логируется вызывающей
// стороной и не откатывает операцию, которая их породила.
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendVerification отправляет email верификации
	SendVerification(to string, token string) error

	// SendPasswordReset отправляет письмо со ссылкой для сброса пароля
	SendPasswordReset(to string, token string) error

	// SendJobStatusUpdate уведомляет работодателя о решении модерации
	SendJobStatusUpdate(to string, jobTitle string, status string, adminNotes string) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}
