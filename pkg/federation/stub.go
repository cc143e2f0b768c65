// Package federation реализует разрешение ссылок на сущности между сервисами:
// заглушки {typename, key}, таблицу диспетчеризации по typename и единый конверт ответа мутаций.
package federation

// Имена типов, которые сервисы регистрируют в составном графе
const (
	TypeListing = "Listing"
	TypeBooking = "Booking"
	TypeReview  = "Review"
	TypeGuest   = "Guest"
	TypeHost    = "Host"
)

// EntityStub ссылка на сущность другого сервиса. Никогда не сохраняется,
// гидратируется только когда клиент запросил поле.
type EntityStub struct {
	Typename string `json:"__typename" binding:"required"`
	ID       string `json:"id" binding:"required"`
}

func Stub(typename, id string) EntityStub {
	return EntityStub{Typename: typename, ID: id}
}

func ListingRef(id string) EntityStub { return Stub(TypeListing, id) }
func BookingRef(id string) EntityStub { return Stub(TypeBooking, id) }
func GuestRef(id string) EntityStub   { return Stub(TypeGuest, id) }
func HostRef(id string) EntityStub    { return Stub(TypeHost, id) }

func (s EntityStub) String() string {
	return s.Typename + ":" + s.ID
}
