package inventory

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/jhoicas/stock-engine/internal/domain"
	"github.com/jhoicas/stock-engine/internal/domain/entity"
)

// TempIDPrefix prefijo de los IDs temporales de variantes aún no guardadas.
const TempIDPrefix = "tmp_"

// ParseOptionValues recorta cada valor y descarta los vacíos. No elimina duplicados.
func ParseOptionValues(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// SplitOptionValues separa una lista escrita como "S, M, L" y la normaliza con ParseOptionValues.
func SplitOptionValues(raw string) []string {
	return ParseOptionValues(strings.Split(raw, ","))
}

// OptionsSignature firma canónica de un mapa de opciones: claves ordenadas y texto en NFC.
// Dos variantes con el mismo mapa de opciones tienen la misma firma.
func OptionsSignature(options map[string]string) string {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\x1e')
		}
		b.WriteString(norm.NFC.String(k))
		b.WriteByte('\x1f')
		b.WriteString(norm.NFC.String(options[k]))
	}
	return b.String()
}

type parsedOption struct {
	name   string
	values []string
}

// GenerateVariants expande las opciones en el producto cartesiano de sus valores, en el orden de
// definición (la primera opción varía más lento). Reutiliza las variantes existentes cuyo mapa de
// opciones coincide (conservan ID, SKU, precio y stock); el resto se crea con precio y costo 0,
// umbral DefaultLowStockThreshold e ID temporal tmp_{índice}.
//
// Si el número de nombres de opción no vacíos no coincide con el número de listas de valores no
// vacías, devuelve domain.ErrInvalidInput y ninguna variante.
func GenerateVariants(productID string, options []entity.OptionDefinition, existing []*entity.Variant) ([]*entity.Variant, error) {
	var names, lists int
	parsed := make([]parsedOption, 0, len(options))
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		name := strings.TrimSpace(o.Name)
		values := ParseOptionValues(o.Values)
		if name != "" {
			names++
		}
		if len(values) > 0 {
			lists++
		}
		if name == "" || len(values) == 0 {
			continue
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: opción repetida %q", domain.ErrInvalidInput, name)
		}
		seen[name] = true
		parsed = append(parsed, parsedOption{name: name, values: values})
	}
	if names != lists || len(parsed) != names {
		return nil, fmt.Errorf("%w: %d nombres de opción para %d listas de valores", domain.ErrInvalidInput, names, lists)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("%w: el producto no tiene opciones", domain.ErrInvalidInput)
	}

	combos := []map[string]string{{}}
	for _, opt := range parsed {
		next := make([]map[string]string, 0, len(combos)*len(opt.values))
		for _, c := range combos {
			for _, v := range opt.values {
				m := make(map[string]string, len(c)+1)
				for k, cv := range c {
					m[k] = cv
				}
				m[opt.name] = v
				next = append(next, m)
			}
		}
		combos = next
	}

	index := make(map[string][]*entity.Variant, len(existing))
	for _, v := range existing {
		sig := OptionsSignature(v.Options)
		index[sig] = append(index[sig], v)
	}

	out := make([]*entity.Variant, 0, len(combos))
	for i, combo := range combos {
		sig := OptionsSignature(combo)
		if q := index[sig]; len(q) > 0 {
			index[sig] = q[1:]
			out = append(out, q[0].Clone())
			continue
		}
		out = append(out, newVariant(productID, i, combo))
	}
	return out, nil
}

// CollapseToSimple reduce un producto a una sola variante sin opciones: la primera existente, o una nueva.
func CollapseToSimple(productID string, existing []*entity.Variant) []*entity.Variant {
	if len(existing) == 0 {
		return []*entity.Variant{newVariant(productID, 0, map[string]string{})}
	}
	v := existing[0].Clone()
	v.Options = map[string]string{}
	return []*entity.Variant{v}
}

// FinalizeVariantIDs reemplaza los IDs temporales por {productID}_{índice}, con índice >= nextIndex y
// distinto de los IDs conservados. Devuelve el nuevo valor de Product.NextVariantIndex. Las variantes
// nuevas sin SKU reciben su ID como SKU.
func FinalizeVariantIDs(productID string, nextIndex int, variants []*entity.Variant) int {
	prefix := productID + "_"
	used := make(map[string]bool, len(variants))
	highWater := nextIndex
	for _, v := range variants {
		if IsTempID(v.ID) {
			continue
		}
		used[v.ID] = true
		if n, ok := variantIndex(prefix, v.ID); ok && n >= highWater {
			highWater = n + 1
		}
	}
	for _, v := range variants {
		v.ProductID = productID
		if !IsTempID(v.ID) {
			continue
		}
		id := prefix + strconv.Itoa(nextIndex)
		for used[id] {
			nextIndex++
			id = prefix + strconv.Itoa(nextIndex)
		}
		used[id] = true
		nextIndex++
		v.ID = id
		if strings.TrimSpace(v.SKU) == "" {
			v.SKU = strings.ToUpper(id)
		}
	}
	if nextIndex > highWater {
		highWater = nextIndex
	}
	return highWater
}

func variantIndex(prefix, id string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	return n, err == nil
}

// IsTempID indica si id es un ID temporal asignado por GenerateVariants.
func IsTempID(id string) bool {
	return id == "" || strings.HasPrefix(id, TempIDPrefix)
}

func newVariant(productID string, index int, options map[string]string) *entity.Variant {
	return &entity.Variant{
		ID:                TempIDPrefix + strconv.Itoa(index),
		ProductID:         productID,
		Price:             decimal.Zero,
		CostPrice:         decimal.Zero,
		LowStockThreshold: entity.DefaultLowStockThreshold,
		Options:           options,
	}
}
