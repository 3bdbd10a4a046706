package contextkeys

// Кастомный тип ключа, чтобы избежать коллизий в context
type contextKey string

// DBContextKey - ключ, по которому *gorm.DB хранится в context
const DBContextKey = contextKey("db")
