package game

// Owner decides which collision checks apply to a bullet
type Owner int

const (
	OwnerPlayer Owner = iota
	OwnerEnemy
)

const (
	BulletRadius = 0.03
	BulletSpeed  = 1.0 / 6
	BulletMuzzle = 1.0 / 10 // spawn distance ahead of the shooter
	BulletDamage = 1
)

// Bullet flies straight until it hits something or leaves the visible radius
type Bullet struct {
	Body
	Proximity
	Owner  Owner
	Radius float64
	Damage int
}

// NewBullet returns a bullet with default radius and damage
func NewBullet(owner Owner, pos, vel Vec) *Bullet {
	return &Bullet{
		Body:   newBody(pos, vel),
		Owner:  owner,
		Radius: BulletRadius,
		Damage: BulletDamage,
	}
}

// FireBullet builds a bullet leaving a shooter at pos with heading rotation
func FireBullet(owner Owner, pos Vec, rotation float64) *Bullet {
	dir := Heading(rotation)
	b := NewBullet(owner, pos.Add(dir.Scale(BulletMuzzle)), dir.Scale(BulletSpeed))
	b.Rotation = rotation
	return b
}

func (b *Bullet) Kind() Kind {
	if b.Owner == OwnerEnemy {
		return KindEnemyBullet
	}
	return KindPlayerBullet
}

// Update despawns the bullet once it is farther from the ship than the
// visible radius
func (b *Bullet) Update(frame uint64) error {
	if b.Known && b.VisibleRadius() > 0 && b.Range > b.VisibleRadius() {
		b.MarkForRemoval()
	}
	return nil
}
