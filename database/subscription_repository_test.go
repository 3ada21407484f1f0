package database

import (
	"testing"
	"time"

	"ajupam-pager/models"

	"go.mongodb.org/mongo-driver/bson"
)

// TestSubscriptionUpsertDoc: el filtro usa la clave (court_number, device_id)
// así dos suscripciones del mismo dispositivo a la misma cancha terminan en
// una sola fila, y el subscribed_at original no se pisa
func TestSubscriptionUpsertDoc(t *testing.T) {
	now := time.Now()
	sub := &models.Subscription{
		CourtNumber: 3,
		DeviceID:    "device-abc",
		FCMToken:    "T1",
	}

	filter, update := subscriptionUpsertDoc(sub, now)

	if filter["court_number"] != 3 || filter["device_id"] != "device-abc" {
		t.Errorf("filtro = %v, se esperaba la clave (cancha, dispositivo)", filter)
	}

	set := update["$set"].(bson.M)
	if set["fcm_token"] != "T1" {
		t.Errorf("$set.fcm_token = %v, se esperaba T1", set["fcm_token"])
	}
	if _, ok := set["subscribed_at"]; ok {
		t.Error("subscribed_at en $set: re-suscribirse pisaría la fecha original")
	}

	onInsert := update["$setOnInsert"].(bson.M)
	if onInsert["subscribed_at"] != now {
		t.Errorf("$setOnInsert.subscribed_at = %v, se esperaba %v", onInsert["subscribed_at"], now)
	}
	if onInsert["court_number"] != 3 || onInsert["device_id"] != "device-abc" {
		t.Errorf("$setOnInsert = %v, falta la identidad de la fila", onInsert)
	}
}

// TestSubscriptionUpsertDoc_MismaClave: re-suscribirse con otro token produce
// el mismo filtro, o sea la misma fila
func TestSubscriptionUpsertDoc_MismaClave(t *testing.T) {
	now := time.Now()
	primera, _ := subscriptionUpsertDoc(&models.Subscription{CourtNumber: 2, DeviceID: "device-x", FCMToken: "T1"}, now)
	segunda, _ := subscriptionUpsertDoc(&models.Subscription{CourtNumber: 2, DeviceID: "device-x", FCMToken: "T2"}, now)

	if primera["court_number"] != segunda["court_number"] || primera["device_id"] != segunda["device_id"] {
		t.Errorf("filtros distintos para la misma clave: %v vs %v", primera, segunda)
	}
}
