package stdlib

// RegisterDefaults adds all builtin functions.
func RegisterDefaults(r *Registry) {
	// I/O
	r.Register(Fn{Name: "log", Arity: Variadic, Doc: "log(a, b, ...) prints its arguments space-separated on one line", Execute: stdlibLog})
	r.Register(Fn{Name: "input", Arity: 1, Doc: "input(prompt) prints prompt and reads one line from standard input", Execute: stdlibInput})

	// Arithmetic
	r.Register(Fn{Name: "add", Arity: 2, Doc: "add(a, b) sums two numbers or concatenates two strings", Execute: stdlibAdd})
	r.Register(Fn{Name: "sub", Arity: 2, Doc: "sub(a, b) subtracts b from a", Execute: stdlibSub})
	r.Register(Fn{Name: "mul", Arity: 2, Doc: "mul(a, b) multiplies two numbers", Execute: stdlibMul})
	r.Register(Fn{Name: "div", Arity: 2, Doc: "div(a, b) divides a by b and always returns a float", Execute: stdlibDiv})
	r.Register(Fn{Name: "mod", Arity: 2, Doc: "mod(a, b) is the remainder of a divided by b, with the sign of b", Execute: stdlibMod})
	r.Register(Fn{Name: "pow", Arity: 2, Doc: "pow(a, b) raises a to the power b", Execute: stdlibPow})

	// Strings and lists
	r.Register(Fn{Name: "str", Arity: 1, Doc: "str(v) converts any value to its printed form", Execute: stdlibStr})
	r.Register(Fn{Name: "index", Arity: 2, Doc: "index(seq, i) returns element i of a string or list", Execute: stdlibIndex})
	r.Register(Fn{Name: "len", Arity: 1, Doc: "len(seq) returns the length of a string or list", Execute: stdlibLen})

	// Predicates
	r.Register(Fn{Name: "eq", Arity: 2, Doc: "eq(a, b) tests structural equality", Execute: stdlibEq})
	r.Register(Fn{Name: "neq", Arity: 2, Doc: "neq(a, b) is the negation of eq", Execute: stdlibNeq})
	r.Register(Fn{Name: "gt", Arity: 2, Doc: "gt(a, b) is a > b for numbers", Execute: stdlibGt})
	r.Register(Fn{Name: "gte", Arity: 2, Doc: "gte(a, b) is a >= b for numbers", Execute: stdlibGte})
	r.Register(Fn{Name: "lt", Arity: 2, Doc: "lt(a, b) is a < b for numbers", Execute: stdlibLt})
	r.Register(Fn{Name: "lte", Arity: 2, Doc: "lte(a, b) is a <= b for numbers", Execute: stdlibLte})
	r.Register(Fn{Name: "and", Arity: 2, Doc: "and(a, b) is true when both operands are truthy; both are always evaluated", Execute: stdlibAnd})
	r.Register(Fn{Name: "or", Arity: 2, Doc: "or(a, b) is true when either operand is truthy; both are always evaluated", Execute: stdlibOr})
}
