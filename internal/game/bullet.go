package game

// BulletKind distinguishes ship fire (moving up) from boss fire (moving
// down).
type BulletKind int

const (
	BulletShip BulletKind = iota
	BulletBoss
)

// Y past which an off-screen ship bullet is removed.
const bulletOffscreenY = -10.0

// Bullet is a projectile owned by the engine. Ship bullets collide with
// enemies in their lane; boss bullets collide with the ship.
type Bullet struct {
	ID   int
	Kind BulletKind
	X    float64
	Y    float64

	alive bool
}

func newShipBullet(id, col int) *Bullet {
	return &Bullet{
		ID:    id,
		Kind:  BulletShip,
		X:     float64(col),
		Y:     ShipRow - 1,
		alive: true,
	}
}

func newBossBullet(id int, x, y float64) *Bullet {
	return &Bullet{
		ID:    id,
		Kind:  BulletBoss,
		X:     x,
		Y:     y,
		alive: true,
	}
}

func (b *Bullet) update(s *State, dt float64) {
	speed := s.cfg.Simulation.BulletSpeed
	if b.Kind == BulletBoss {
		b.Y += speed * dt
		b.updateBoss(s)
		return
	}

	b.Y -= speed * dt
	if hit := b.findTarget(s); hit != nil {
		s.spawnExplosion(b.X, b.Y, false)
		hit.TakeDamage(s)
		b.alive = false
		return
	}
	if b.Y < bulletOffscreenY {
		b.alive = false
	}
}

// findTarget returns the first live enemy overlapping the bullet's column
// at or below its current height.
func (b *Bullet) findTarget(s *State) *Enemy {
	col := int(b.X)
	for _, e := range s.Enemies {
		if !e.alive || !e.occupiesColumn(col) {
			continue
		}
		if float64(e.Y+e.HeightCells-1) >= b.Y {
			return e
		}
	}
	return nil
}

func (b *Bullet) updateBoss(s *State) {
	ship := s.Ship
	if int(b.X) == int(ship.X) && b.Y >= ShipRow {
		s.spawnExplosion(b.X, b.Y, false)
		ship.TakeDamage(s)
		b.alive = false
		return
	}
	if b.Y > ShipRow+5 {
		b.alive = false
	}
}
