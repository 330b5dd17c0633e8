package world

// Defaults shared by the server and the client simulation.
const (
	DefaultFoodCount   = 30
	DefaultFoodMaxX    = 780
	DefaultFoodMaxY    = 580
	DefaultEatRadius   = 10.0
	DefaultSpawnX      = 400.0
	DefaultSpawnY      = 300.0
	DefaultWorldWidth  = 2000.0
	DefaultWorldHeight = 2000.0
)

// Config holds the tunable world rules.
type Config struct {
	// FoodCount is the size the food pool is held at.
	// Default: 30.
	FoodCount int

	// FoodMaxX and FoodMaxY bound food spawn positions to [0, FoodMaxX) x [0, FoodMaxY).
	// Coordinates are whole numbers.
	// Default: 780 x 580.
	FoodMaxX int
	FoodMaxY int

	// EatRadius is the half side of the square proximity test.
	// Default: 10.
	EatRadius float64

	// Spawn is where every new snake starts.
	// Default: (400, 300).
	Spawn Position

	// Bounds clamps snake heads.
	// Default: 2000 x 2000.
	Bounds Bounds
}

// DefaultConfig returns a Config with the arena defaults.
func DefaultConfig() *Config {
	return &Config{
		FoodCount: DefaultFoodCount,
		FoodMaxX:  DefaultFoodMaxX,
		FoodMaxY:  DefaultFoodMaxY,
		EatRadius: DefaultEatRadius,
		Spawn:     Position{X: DefaultSpawnX, Y: DefaultSpawnY},
		Bounds:    Bounds{Width: DefaultWorldWidth, Height: DefaultWorldHeight},
	}
}

// WithDefaults returns a copy with zero fields filled from DefaultConfig. A nil receiver
// yields DefaultConfig.
func (c *Config) WithDefaults() *Config {
	d := DefaultConfig()
	if c == nil {
		return d
	}
	out := *c
	if out.FoodCount <= 0 {
		out.FoodCount = d.FoodCount
	}
	if out.FoodMaxX <= 0 {
		out.FoodMaxX = d.FoodMaxX
	}
	if out.FoodMaxY <= 0 {
		out.FoodMaxY = d.FoodMaxY
	}
	if out.EatRadius <= 0 {
		out.EatRadius = d.EatRadius
	}
	if out.Bounds.Width <= 0 || out.Bounds.Height <= 0 {
		out.Bounds = d.Bounds
	}
	return &out
}
