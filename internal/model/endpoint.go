package model

import "net/url"

// LIGA admin API paths.
const (
	EndpointLogin        = "/api/appadmin/auth/login"
	EndpointUsers        = "/api/appadmin/usuarios"
	EndpointActiveEvents = "/api/appadmin/eventos/ativos"
	EndpointEvents       = "/api/appadmin/eventos"
	EndpointEntryControl = "/api/appadmin/controle-entrada"
	EndpointCoupons      = "/api/appadmin/cupons"
	EndpointCourtesies   = "/api/appadmin/cortesias"
	EndpointSendCourtesy = "/api/appadmin/cortesias/disparar"
	EndpointSalesReport  = "/api/appadmin/relatorios/vendas"
)

// EventEndpoint is the details and update path of one event.
func EventEndpoint(id string) string {
	return EndpointEvents + "/" + url.PathEscape(id)
}

// EntryTotalsEndpoint is the check-in totals path of one event.
func EntryTotalsEndpoint(eventID string) string {
	return EndpointEntryControl + "/" + url.PathEscape(eventID) + "/totalizadores"
}
