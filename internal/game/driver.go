package game

// Driver is the surface an engine drives: it wires the engine and scene
// collaborators to a Game and forwards frames and input.
type Driver struct {
	engine Engine
	scene  Scene
	game   *Game
}

func NewDriver(engine Engine, scene Scene) *Driver {
	return &Driver{
		engine: engine,
		scene:  scene,
		game:   NewGame(scene),
	}
}

// Init sets the frame rate, sets up the background and racks the table.
func (d *Driver) Init() {
	d.engine.SetTargetFPS(TargetFPS)
	d.scene.SetupBackground(TableWidth, TableHeight)
	d.game.Init()
}

func (d *Driver) Deinit() {
	d.game.Deinit()
}

// Update advances the game by dt seconds and refreshes the progress bar.
func (d *Driver) Update(dt float64) {
	d.game.Update(dt)
	d.scene.UpdateProgressBar(d.game.ChargeProgress())
}

func (d *Driver) MouseButtonPressed(x, y float64) {
	d.game.MouseButtonPressed(x, y)
}

func (d *Driver) MouseButtonReleased(x, y float64) {
	d.game.MouseButtonReleased(x, y)
}

func (d *Driver) Game() *Game {
	return d.game
}
