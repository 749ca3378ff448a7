package avro

// OrderChangeSchema is the Avro schema for order change events on the wire.
// All fields are required; optional notes travel as an empty string so the
// native representation stays plain maps without union wrappers.
const OrderChangeSchema = `{
	"type": "record",
	"name": "OrderChange",
	"namespace": "se.tgpizzeria.orders",
	"fields": [
		{"name": "type", "type": "string"},
		{"name": "order", "type": {
			"type": "record",
			"name": "Order",
			"fields": [
				{"name": "id", "type": "string"},
				{"name": "order_number", "type": "string"},
				{"name": "customer_name", "type": "string"},
				{"name": "customer_phone", "type": "string"},
				{"name": "items", "type": {
					"type": "array",
					"items": {
						"type": "record",
						"name": "OrderItem",
						"fields": [
							{"name": "name", "type": "string"},
							{"name": "price", "type": "double"},
							{"name": "quantity", "type": "long"}
						]
					}
				}},
				{"name": "total_amount", "type": "double"},
				{"name": "payment_method", "type": "string"},
				{"name": "payment_status", "type": "string"},
				{"name": "order_status", "type": "string"},
				{"name": "notes", "type": "string"},
				{"name": "created_at", "type": "string"},
				{"name": "updated_at", "type": "string"}
			]
		}}
	]
}`
