package entities

import "time"

// Clan is a player group that accumulates XP from its members' wagering
type Clan struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Tag       string    `db:"tag"`
	CreatorID int64     `db:"creator_id"`
	XP        int64     `db:"xp"`
	CreatedAt time.Time `db:"created_at"`
}

// ClanMember links a profile to its clan
type ClanMember struct {
	ID        int64     `db:"id"`
	ClanID    int64     `db:"clan_id"`
	ProfileID int64     `db:"profile_id"`
	JoinedAt  time.Time `db:"joined_at"`
}

// Level derives the clan level from accumulated XP. Each level requires
// 1000 XP more than the last.
func (c *Clan) Level() int {
	level := 1
	threshold := int64(1000)
	xp := c.XP
	for xp >= threshold {
		xp -= threshold
		threshold += 1000
		level++
	}
	return level
}
