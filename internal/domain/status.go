package domain

type Status string

const (
	StatusPending    Status = "pending"
	StatusPreparing  Status = "preparing"
	StatusReady      Status = "ready"
	StatusDispatched Status = "dispatched"
	StatusCancelled  Status = "cancelled"
)

// ProgressSteps is the display order of the customer tracker. Cancelled is
// reachable from any of them but is never drawn as a step.
var ProgressSteps = []Status{StatusPending, StatusPreparing, StatusReady, StatusDispatched}

var statusLabels = map[Status]string{
	StatusPending:    "Pendente",
	StatusPreparing:  "Preparando",
	StatusReady:      "Pronto",
	StatusDispatched: "Enviado",
	StatusCancelled:  "Cancelado",
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Terminal reports whether an order in this status drops out of customer tracking.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusDispatched
}

func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

type PaymentMethod string

const (
	PaymentCardMachine   PaymentMethod = "card_machine"
	PaymentCash          PaymentMethod = "cash"
	PaymentPixOnDelivery PaymentMethod = "pix_on_delivery"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentCardMachine:   "Cartão (Máquina)",
	PaymentCash:          "Dinheiro",
	PaymentPixOnDelivery: "PIX (na Entrega)",
}

func (p PaymentMethod) Valid() bool {
	_, ok := paymentLabels[p]
	return ok
}

func (p PaymentMethod) Label() string {
	if l, ok := paymentLabels[p]; ok {
		return l
	}
	return string(p)
}

type Category string

const (
	CategoryBurgers  Category = "burgers"
	CategorySides    Category = "sides"
	CategoryDrinks   Category = "drinks"
	CategoryDesserts Category = "desserts"
	CategorySpecial  Category = "special"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryBurgers, CategorySides, CategoryDrinks, CategoryDesserts, CategorySpecial:
		return true
	}
	return false
}

type ActivityType string

const (
	ActivityOrder     ActivityType = "ORDER"
	ActivityStatus    ActivityType = "STATUS"
	ActivityInventory ActivityType = "INVENTORY"
	ActivitySystem    ActivityType = "SYSTEM"
)
