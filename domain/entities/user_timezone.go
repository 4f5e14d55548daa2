package entities

import "time"

// UserTimezone is the personal timezone a user registered with the personal command
type UserTimezone struct {
	UserID    int64     `db:"id"`
	Timezone  string    `db:"timezone"`
	UpdatedAt time.Time `db:"updated_at"`
}
