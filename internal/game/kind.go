// internal/game/kind.go
//
// Token classification for catalogs that do not name an element's kind.

package game

var operatorValues = map[string]struct{}{
	"+": {}, "-": {}, "*": {}, "/": {},
	"===": {}, "!==": {}, ">": {}, "<": {}, "<=": {}, ">=": {}, "==": {}, "!=": {},
	"?": {}, ":": {}, "&&": {}, "||": {},
}

var methodValues = map[string]struct{}{
	"map": {}, "filter": {}, "reduce": {}, "forEach": {},
	"push": {}, "pop": {}, "shift": {}, "unshift": {},
}

// KindForValue classifies a token by its text. Used when a catalog entry
// does not declare a kind.
func KindForValue(value string) Kind {
	if _, ok := operatorValues[value]; ok {
		return KindOperator
	}
	if _, ok := methodValues[value]; ok {
		return KindMethod
	}
	return KindOther
}
