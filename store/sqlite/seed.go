package sqlite

import "context"

// SeedDemo loads a small demo portfolio: a mix of paid, due-soon, overdue
// and cancelled cases across two products, with the field-spelling variety
// the upstream actually produces. Used by the dev server (-seed) and by the
// API tests.
func (s *Store) SeedDemo(ctx context.Context) error {
	return s.ImportSnapshot(ctx, []byte(demoSnapshot))
}

const demoSnapshot = `{
  "policies": [
    {
      "id": "pol-001",
      "no_poliza": "AUT-1001",
      "producto": "Autos",
      "compania": "GNP",
      "cliente_id": "cli-1",
      "fecha_emision": "2024-03-05",
      "fecha_inicio": "2024-03-05",
      "forma_pago": "anual",
      "total": 12400.50,
      "prima_neta": 10500,
      "recibos": [
        {"importe": 12400.50, "fecha_vencimiento": "2024-03-20", "fecha_pago": "2024-03-10", "estatus": "Pagado"}
      ]
    },
    {
      "id": "pol-002",
      "numeroPoliza": "VID-2001",
      "producto": "Vida",
      "aseguradora": "Metlife",
      "clienteId": "cli-2",
      "fechaEmision": "2024-03-01",
      "forma_pago": "fraccionado",
      "frecuencia_pago": "mensual",
      "prima": "5400",
      "recibos": [
        {"amount": 450, "fecha_vencimiento": "2024-03-01", "fechaPago": "2024-03-02"},
        {"amount": 450, "fecha_vencimiento": "2024-03-25"},
        {"amount": 450, "fecha_vencimiento": "2024-04-25"}
      ]
    },
    {
      "id": "pol-003",
      "no_poliza": "GMM-3001",
      "producto": "Gastos Médicos",
      "compania": "AXA",
      "cliente_id": "cli-1",
      "fecha_captura": "2024-02-10",
      "monto": 31000,
      "proximo_pago": "2024-02-28",
      "estatus_pago": "Vencido"
    },
    {
      "id": "pol-004",
      "no_poliza": "AUT-1002",
      "producto": "Autos",
      "compania": "GNP",
      "cliente_id": "cli-3",
      "fecha_emision": "2024-01-15",
      "estado": "Cancelada",
      "fecha_cancelacion": "2024-02-20",
      "total": 8000,
      "recibos": [
        {"importe": 8000, "fecha_vencimiento": "2024-02-15"}
      ]
    },
    {
      "id": "pol-005",
      "no_poliza": "AUT-1001",
      "compania": "GNP",
      "cliente_id": "cli-1",
      "fecha_inicio": "2024-03-05",
      "fecha_emision": "2024-03-05",
      "total": 12400.50
    }
  ],
  "clients": [
    {"id": "cli-1", "nombre": "María Fernández", "telefono_movil": "55-1234-5678"},
    {"id": "cli-2", "name": "José Luis Ortega", "telefonoMovil": "55-8765-4321"},
    {"id": "cli-3", "nombre": "Carmen Ruiz", "telefono": "55-1122-3344"}
  ]
}`
