// Package entity defines the core business entities for the domain layer.
package entity

// ActionType identifies a structured action extracted from an assistant reply.
type ActionType string

// ActionTypeNavigate asks the client to move to an in-app route.
const ActionTypeNavigate ActionType = "navigate"

// Known in-app routes an assistant reply may point to.
const (
	RouteDashboard    = "/"
	RouteIncome       = "/ingresos"
	RouteExpenses     = "/egresos"
	RouteTransactions = "/movimientos"
	RouteReports      = "/reportes"
	RouteAssistant    = "/asistente"
)

// KnownRoutes lists the in-app routes the assistant is told about.
var KnownRoutes = []string{
	RouteDashboard,
	RouteIncome,
	RouteExpenses,
	RouteTransactions,
	RouteReports,
	RouteAssistant,
}

// IsKnownRoute reports whether route is one of KnownRoutes.
func IsKnownRoute(route string) bool {
	for _, r := range KnownRoutes {
		if r == route {
			return true
		}
	}
	return false
}

// AssistantAction is a structured command embedded in an assistant reply.
type AssistantAction struct {
	Type    ActionType `json:"type"`
	Payload string     `json:"payload"`
}

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a conversation with the assistant.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// InvoiceScan is the best-effort result of scanning an invoice or receipt.
// A nil field means the scanner could not read it and the form value must be kept.
type InvoiceScan struct {
	IssuerRUC     *string
	IssuerName    *string
	InvoiceNumber *string
	Date          *string
	Amount        *float64
	Description   *string
	Category      *string
	Method        *string
}
