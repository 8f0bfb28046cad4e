package domain

import "time"

type Board struct {
	Id          BoardId
	Name        string
	Description string
	LastUpdated time.Time
}

// to iterate thru layers: handler -> service -> storage
type BoardCreationData struct {
	Name        string
	Description string
}
