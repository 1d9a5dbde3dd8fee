package ports

// Confirmation paso explícito de confirmación para operaciones destructivas e irreversibles.
// Recibe el texto de la pregunta y devuelve true solo si el usuario confirmó.
type Confirmation func(prompt string) bool

// Confirmed confirmación ya otorgada (p.ej. ?confirm=true en HTTP).
func Confirmed(string) bool { return true }

// Confirm evalúa c; una confirmación nil cuenta como rechazo.
func Confirm(c Confirmation, prompt string) bool {
	return c != nil && c(prompt)
}
