package badunion

type Shape interface{ isShape() }

type Circle struct {
	Kind   string  `shape:"kind,const=circle"`
	Radius float64 `shape:"radius"`
}

func (Circle) isShape() {}

type Square struct {
	Kind string  `shape:"kind,const=square"`
	Side float64 `shape:"side"`
}

type Drawing struct {
	Main Shape `shape:"main,union=kind" variants:"Circle,Square"`
}
