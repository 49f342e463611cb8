package models

// Department codes whose sign-off an ECR may require. The set is fixed by
// the organization; approvals keyed outside this list are rejected up front.
const (
	DeptIngProducto    = "ing_producto"
	DeptIngManufatura  = "ing_manufatura"
	DeptHSE            = "hse"
	DeptCalidad        = "calidad"
	DeptCompras        = "compras"
	DeptSQA            = "sqa"
	DeptTooling        = "tooling"
	DeptLogistica      = "logistica"
	DeptFinanciero     = "financiero"
	DeptComercial      = "comercial"
	DeptMantenimiento  = "mantenimiento"
	DeptProduccion     = "produccion"
	DeptCalidadCliente = "calidad_cliente"
)

// DepartmentCodes lists every department in stable order.
var DepartmentCodes = []string{
	DeptIngProducto,
	DeptIngManufatura,
	DeptHSE,
	DeptCalidad,
	DeptCompras,
	DeptSQA,
	DeptTooling,
	DeptLogistica,
	DeptFinanciero,
	DeptComercial,
	DeptMantenimiento,
	DeptProduccion,
	DeptCalidadCliente,
}

// IsValidDepartment reports whether code belongs to the fixed department set.
func IsValidDepartment(code string) bool {
	for _, d := range DepartmentCodes {
		if d == code {
			return true
		}
	}
	return false
}
