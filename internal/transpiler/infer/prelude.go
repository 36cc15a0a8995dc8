package infer

// Signature declares one prelude name.
type Signature struct {
	Name string
	Sig  string
}

// PreludeSignatures mirrors the runtime in the std package: literals and
// operators, Option, List and Either, the capability instances and the
// rewrite entry points and markers.
var PreludeSignatures = []Signature{
	// operators
	{"+", "(Int, Int) => Int"},
	{"-", "(Int, Int) => Int"},
	{"*", "(Int, Int) => Int"},
	{"/", "(Int, Int) => Int"},
	{"%", "(Int, Int) => Int"},
	{"==", "(a, a) => Boolean"},
	{"!=", "(a, a) => Boolean"},
	{"<", "(Int, Int) => Boolean"},
	{"<=", "(Int, Int) => Boolean"},
	{">", "(Int, Int) => Boolean"},
	{">=", "(Int, Int) => Boolean"},
	{"&&", "(Boolean, => Boolean) => Boolean"},
	{"||", "(Boolean, => Boolean) => Boolean"},
	{"unary_-", "(Int) => Int"},
	{"unary_!", "(Boolean) => Boolean"},
	{"println", "(a) => Unit"},
	{"concat", "(String, a) => String"},

	// Option
	{"Some", "(a) => Option[a]"},
	{"None", "Option[a]"},
	{"Option.map", "(Option[a], (a) => b) => Option[b]"},
	{"Option.flatMap", "(Option[a], (a) => Option[b]) => Option[b]"},
	{"Option.foreach", "(Option[a], (a) => b) => Unit"},
	{"Option.filter", "(Option[a], (a) => Boolean) => Option[a]"},
	{"Option.withFilter", "(Option[a], (a) => Boolean) => Option[a]"},
	{"Option.getOrElse", "(Option[a], => a) => a"},
	{"Option.isDefined", "(Option[a]) => Boolean"},
	{"Option.flatten", "(Option[Option[a]]) => Option[a]"},

	// List
	{"List", "(Repeated[a]) => List[a]"},
	{"Nil", "List[a]"},
	{"NonEmptyList", "(a, Repeated[a]) => NonEmptyList[a]"},
	{"List.map", "(List[a], (a) => b) => List[b]"},
	{"List.flatMap", "(List[a], (a) => List[b]) => List[b]"},
	{"List.foreach", "(List[a], (a) => b) => Unit"},
	{"List.filter", "(List[a], (a) => Boolean) => List[a]"},
	{"List.withFilter", "(List[a], (a) => Boolean) => List[a]"},
	{"List.flatten", "(List[List[a]]) => List[a]"},
	{"List.size", "(List[a]) => Int"},
	{"List.head", "(List[a]) => a"},
	{"List.sum", "(List[Int]) => Int"},
	{"List.contains", "(List[a], a) => Boolean"},

	// Either
	{"Left", "(e) => Either[e, a]"},
	{"Right", "(a) => Either[e, a]"},
	{"Either.map", "(Either[e, a], (a) => b) => Either[e, b]"},
	{"Either.flatMap", "(Either[e, a], (a) => Either[e, b]) => Either[e, b]"},
	{"Either.getOrElse", "(Either[e, a], => a) => a"},

	// capabilities
	{"Monad.pure", "(Monad[F], a) => F[a]"},
	{"Monad.bind", "(Monad[F], F[a], (a) => F[b]) => F[b]"},
	{"Monad.map", "(Monad[F], F[a], (a) => b) => F[b]"},
	{"Traversable.over", "(Traversable[G], Monad[F]) => Traverse[G, F]"},
	{"Traverse.traverse", "(Traverse[G, F], G[a], (a) => F[b]) => F[G[b]]"},
	{"Traverse.filterM", "(Traverse[G, F], G[a], (a) => F[Boolean]) => F[G[a]]"},
	{"OptionMonad", "Monad[Option[_]]"},
	{"ListMonad", "Monad[List[_]]"},
	{"EitherMonad", "Monad[Either[e, _]]"},
	{"ListTraverse", "Traversable[List[_]]"},
	{"OptionTraverse", "Traversable[Option[_]]"},

	// markers and entry points
	{"unwrap", "(F[a]) => a"},
	{"unwrapOps", "(F[a]) => UnwrapOps[F, a]"},
	{"UnwrapOps.!", "(UnwrapOps[F, a]) => a"},
	{"effectfully", "(a) => r"},
	{"effectfullyUnapply", "(a) => r"},
}

// PreludeSupertypes is the default linearization of the prelude types.
var PreludeSupertypes = map[string][]string{
	"NonEmptyList": {"List"},
}

// Prelude returns a fresh environment holding PreludeSignatures.
func Prelude() TypeEnv {
	env := make(TypeEnv, len(PreludeSignatures))
	for _, s := range PreludeSignatures {
		if err := env.Declare(s.Name, s.Sig); err != nil {
			panic(err)
		}
	}
	return env
}
