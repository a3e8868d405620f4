package catalog

// Group buckets books by normalized category. Groups come out in the order
// their label was first produced; books keep their input order inside a
// group. A book tagged with several categories lands in each matching group,
// but at most once per group.
func (n *Normalizer) Group(books []Book) []GenreGroup {
	var order []string
	byGenre := make(map[string][]Book)

	for _, b := range books {
		categories := b.Categories
		if len(categories) == 0 {
			categories = []string{FallbackGenre}
		}

		used := make(map[string]bool, len(categories))
		for _, raw := range categories {
			label := n.Normalize(raw)
			if used[label] {
				continue
			}
			used[label] = true

			if _, ok := byGenre[label]; !ok {
				order = append(order, label)
			}
			byGenre[label] = append(byGenre[label], b)
		}
	}

	groups := make([]GenreGroup, len(order))
	for i, label := range order {
		groups[i] = GenreGroup{Genre: label, Books: byGenre[label]}
	}
	return groups
}
