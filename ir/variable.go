package ir

// Variable is a non-negative integer wire identifier. Once a flattener
// allocates a Variable it is immutable: the optimizer may substitute it away
// (replace its uses with a LinComb) but it never reassigns the id.
type Variable int

// One is the distinguished variable that always equals the field element 1.
// It is never mutated, substituted away, or eliminated (see
// optimizer.RedefinitionOptimizer, which seeds it into its ignore set).
const One Variable = 0
