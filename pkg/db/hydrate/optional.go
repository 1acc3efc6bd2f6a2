package hydrate

import "fmt"

// Prefix names the column group a joined relation was selected under,
// e.g. "br_a" for br_a_cause_id, br_a_cause_type, br_a_cause_name.
type Prefix string

// Col returns the prefixed column name.
func (p Prefix) Col(name string) string {
	if p == "" {
		return name
	}
	return string(p) + "_" + name
}

// Resolver reads one relation's prefixed columns into T.
type Resolver[T any] func(row Row, prefix Prefix) (T, error)

// Optional resolves the relation stored under prefix when discriminator
// is not NULL. A NULL discriminator yields nil without calling resolve,
// so the relation's columns are never read on an outer-join miss.
func Optional[T any](row Row, discriminator string, prefix Prefix, resolve Resolver[T]) (*T, error) {
	null, err := row.IsNull(discriminator)
	if err != nil {
		return nil, err
	}
	if null {
		return nil, nil
	}
	v, err := resolve(row, prefix)
	if err != nil {
		return nil, fmt.Errorf("hydrate %s: %w", prefix, err)
	}
	return &v, nil
}
