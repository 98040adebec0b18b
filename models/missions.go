package models

// MissionInfo is static reference data about a mission, used only for display
type MissionInfo struct {
	Name            MissionModel `json:"name"`
	RemoteID        string       `json:"remoteId"`
	Description     string       `json:"description"`
	YearOfOperation string       `json:"yearOfOperation"`
	Accuracy        float64      `json:"accuracy"` // percent
	F1Score         float64      `json:"f1Score"`
}

var missionCatalog = map[MissionModel]MissionInfo{
	MissionK2: {
		Name:            MissionK2,
		RemoteID:        "k2",
		Description:     "Extended Kepler mission observing new fields along the ecliptic plane",
		YearOfOperation: "2014-2018",
		Accuracy:        94.2,
		F1Score:         0.91,
	},
	MissionTESS: {
		Name:            MissionTESS,
		RemoteID:        "toi",
		Description:     "Transiting Exoplanet Survey Satellite scanning nearly the entire sky",
		YearOfOperation: "2018-Present",
		Accuracy:        96.8,
		F1Score:         0.94,
	},
	MissionKepler: {
		Name:            MissionKepler,
		RemoteID:        "kepler",
		Description:     "Primary mission monitoring 150,000 stars for planetary transits",
		YearOfOperation: "2009-2013",
		Accuracy:        93.5,
		F1Score:         0.89,
	},
}

// Info returns the catalog entry for m
func (m MissionModel) Info() (MissionInfo, bool) {
	info, ok := missionCatalog[m]
	return info, ok
}

// Catalog returns all mission entries in display order
func Catalog() []MissionInfo {
	out := make([]MissionInfo, 0, len(Missions))
	for _, m := range Missions {
		out = append(out, missionCatalog[m])
	}
	return out
}
