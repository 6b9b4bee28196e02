package utils

import (
	"github.com/denisbrodbeck/machineid"
)

// HWID is a stable, privacy-preserving identifier for this machine.
var HWID = hwid()

func hwid() string {
	id, err := machineid.ProtectedID("vaultsync")
	if err != nil {
		return "unknown"
	}
	return id
}
