package projection

import (
	"strconv"

	"github.com/fjod/go_cart/cart-widget/internal/dispatch"
	"github.com/fjod/go_cart/cart-widget/internal/domain"
)

const EmptyCartText = "Carrito vacío - comience a comprar!"

// Control is a clickable element; it carries everything the dispatcher
// needs to resolve an action.
type Control struct {
	Region    dispatch.Region
	Role      dispatch.Role
	ProductID string
}

type CardView struct {
	ID           string
	Title        string
	Price        float64
	ThumbnailURL string
	Buy          Control
}

type CatalogView struct {
	Cards []CardView
}

type LineView struct {
	ID        string
	Title     string
	Quantity  int
	LineTotal float64
	Increment Control
	Decrement Control
}

type LinesView struct {
	Lines []LineView
}

// FooterView holds totals, or only the placeholder when Empty is set.
type FooterView struct {
	Empty         bool
	Placeholder   string
	TotalQuantity int
	TotalPrice    float64
	Clear         Control
}

type PageView struct {
	Catalog CatalogView
	Lines   LinesView
	Footer  FooterView
}

func Catalog(products []domain.Product) CatalogView {
	cards := make([]CardView, 0, len(products))
	for _, p := range products {
		cards = append(cards, CardView{
			ID:           p.ID,
			Title:        p.Title,
			Price:        p.Price,
			ThumbnailURL: p.ThumbnailURL,
			Buy: Control{
				Region:    dispatch.RegionCards,
				Role:      dispatch.RoleBuy,
				ProductID: p.ID,
			},
		})
	}
	return CatalogView{Cards: cards}
}

func Lines(lines []domain.CartLine) LinesView {
	out := make([]LineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, LineView{
			ID:        l.ID,
			Title:     l.Title,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal(),
			Increment: Control{Region: dispatch.RegionItems, Role: dispatch.RoleIncrement, ProductID: l.ID},
			Decrement: Control{Region: dispatch.RegionItems, Role: dispatch.RoleDecrement, ProductID: l.ID},
		})
	}
	return LinesView{Lines: out}
}

func Footer(lines []domain.CartLine) FooterView {
	if len(lines) == 0 {
		return FooterView{Empty: true, Placeholder: EmptyCartText}
	}

	totals := domain.ComputeTotals(lines)
	return FooterView{
		TotalQuantity: totals.Quantity,
		TotalPrice:    totals.Price,
		Clear:         Control{Region: dispatch.RegionFooter, Role: dispatch.RoleClear},
	}
}

func Page(products []domain.Product, lines []domain.CartLine) PageView {
	return PageView{
		Catalog: Catalog(products),
		Lines:   Lines(lines),
		Footer:  Footer(lines),
	}
}

// FormatAmount prints a number without trailing zeros: 20, 10.5.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
