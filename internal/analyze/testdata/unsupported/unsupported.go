package unsupported

type Bag struct {
	Items map[string]int
}
