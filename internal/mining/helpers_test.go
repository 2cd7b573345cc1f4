package mining

import "github.com/iaros/recoengine/internal/models"

func threeWayOrder() []models.Order {
	return []models.Order{
		{
			OID: "O1",
			UID: "U1",
			Products: []models.OrderProduct{
				{OID: "O1", PID: "P1"},
				{OID: "O1", PID: "P2"},
				{OID: "O1", PID: "P3"},
			},
		},
	}
}
