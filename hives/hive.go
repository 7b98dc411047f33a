package hives

import "time"

// Apiary groups hives at one site
type Apiary struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location,omitempty"`
	OrgID     int64     `json:"organisation_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Hive struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Location   string    `json:"location,omitempty"`
	ApiaryID   *int64    `json:"apiary_id"`
	ApiaryName string    `json:"apiary_name,omitempty"` // read-only, joined from the apiary
	DeviceID   string    `json:"device_id,omitempty"`   // external device identifier, e.g. a LoRaWAN device id
	OrgID      int64     `json:"organisation_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// HiveUpdate holds the fields of a partial hive update. Nil fields are left unchanged.
type HiveUpdate struct {
	Name     *string
	Location *string
	DeviceID *string
	ApiaryID *int64 // 0 detaches the hive from its apiary
}

func (u HiveUpdate) Empty() bool {
	return u.Name == nil && u.Location == nil && u.DeviceID == nil && u.ApiaryID == nil
}

// ApiaryUpdate holds the fields of a partial apiary update. Nil fields are left unchanged.
type ApiaryUpdate struct {
	Name     *string
	Location *string
}

func (u ApiaryUpdate) Empty() bool {
	return u.Name == nil && u.Location == nil
}
