package sandbox

import (
	"time"

	"github.com/devpureza/liga-expo/internal/model"
)

// Seeded demo logins.
const (
	AdminEmail       = "admin@deualiga.com.br"
	AdminPassword    = "liga-admin"
	ProducerEmail    = "produtor@deualiga.com.br"
	ProducerPassword = "liga-produtor"
	POSEmail         = "caixa@deualiga.com.br"
	POSPassword      = "liga-caixa"
	POSCPF           = "123.456.789-00"
)

func (b *Backend) seed() error {
	now := b.now()
	day := func(offset int) string { return now.AddDate(0, 0, offset).Format(dateLayout) }

	accounts := []struct {
		account  Account
		password string
	}{
		{Account{ID: "1", Name: "Administração LIGA", Email: AdminEmail, Groups: []string{model.GroupAdmin}, Avatar: "avatars/admin.png"}, AdminPassword},
		{Account{ID: "2", Name: "Paula Produtora", Email: ProducerEmail, Groups: []string{model.GroupCommissar, model.GroupProducer}}, ProducerPassword},
		{Account{ID: "3", Name: "Caixa Portaria", Email: POSEmail, CPF: POSCPF, Groups: []string{model.GroupPOS}, ApprovalStatus: "pendente"}, POSPassword},
	}
	for _, a := range accounts {
		a.account.CreatedAt = now.AddDate(0, -6, 0)
		if _, err := b.AddAccount(a.account, a.password); err != nil {
			return err
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.events = []EventRecord{
		{
			ID: 1, Nome: "Calourada LIGA", DataEvento: day(14), Status: "ativo",
			NomeLocal: "Ginásio Central", Cidade: "Goiânia", Estado: "GO",
			DataInicio: day(14), DataFim: day(14), HorarioInicio: "22:00", HorarioFim: "05:00",
			Capacidade: 1500, VendasAtivas: true,
		},
		{
			ID: 2, Nome: "Interatléticas", DataEvento: day(40), Status: "ativo",
			NomeLocal: "Estádio Olímpico", Cidade: "Anápolis", Estado: "GO",
			Capacidade: 5000, VendasAtivas: true,
		},
		{
			ID: 3, Nome: "Festa Junina Universitária", DataEvento: day(-20), Status: "encerrado",
			NomeLocal: "Praça Cívica", Cidade: "Goiânia", Estado: "GO",
		},
	}
	b.totals[1] = model.EntryTotals{TotalTickets: 1200, RemainingTickets: 1200, UsedTickets: 0}
	b.totals[2] = model.EntryTotals{TotalTickets: 800, RemainingTickets: 800, UsedTickets: 0}
	b.totals[3] = model.EntryTotals{TotalTickets: 950, RemainingTickets: 112, UsedTickets: 838}

	ten, five := 10, 5
	b.coupons = []CouponRecord{
		{ID: "1", Codigo: "CALOURO10", Valor: 10, TipoDesconto: "percentual", Status: 1, DataExpiracao: day(10), LimiteUsoPorCupom: &ten, LimiteUsoPorCliente: 1, Usos: 3, EventoID: 1, EventoNome: "Calourada LIGA", Descricao: "Desconto calouros"},
		{ID: "2", Codigo: "ATLETICA", Valor: 15, TipoDesconto: "fixo", Status: 1, DataExpiracao: day(30), LimiteUsoPorCupom: &five, LimiteUsoPorCliente: 1, Usos: 5, EventoID: 2, EventoNome: "Interatléticas", Descricao: "Parceria atléticas"},
		{ID: "3", Codigo: "JUNINA", Valor: 20, TipoDesconto: "percentual", Status: 1, DataExpiracao: day(-15), LimiteUsoPorCliente: 1, EventoID: 3, EventoNome: "Festa Junina Universitária", Descricao: "Arraiá"},
		{ID: "4", Codigo: "STAFF", Valor: 50, TipoDesconto: "percentual", Status: 0, DataExpiracao: day(60), LimiteUsoPorCliente: 1, EventoID: 1, EventoNome: "Calourada LIGA", Descricao: "Equipe"},
	}

	calourada := RefRecord{ID: 1, Nome: "Calourada LIGA"}
	b.courtesies = []CourtesyRecord{
		{ID: 1, Evento: calourada, Ingresso: RefRecord{ID: 10, Nome: "Pista"}, Lote: RefRecord{ID: 1, Nome: "1º Lote"}, Usuario: &RefRecord{ID: 2, Nome: "Paula Produtora"}, Status: "ativa", DataCriacao: day(-3), DataExpiracao: day(14), Quantidade: 2},
		{ID: 2, Evento: calourada, Ingresso: RefRecord{ID: 11, Nome: "Camarote"}, Lote: RefRecord{ID: 1, Nome: "1º Lote"}, Usuario: &RefRecord{ID: 3}, DataCriacao: day(-5), DataUtilizacao: day(-1), Quantidade: 1},
		{ID: 3, Evento: RefRecord{ID: 3, Nome: "Festa Junina Universitária"}, Ingresso: RefRecord{ID: 12, Nome: "Pista"}, DataCriacao: day(-40), DataExpiracao: day(-20), Quantidade: 4, Observacoes: "Banda"},
		{ID: 4, Evento: RefRecord{ID: 2, Nome: "Interatléticas"}, Ingresso: RefRecord{ID: 13}, Status: "pendente", DataCriacao: day(-1), Quantidade: 10},
	}

	at := func(offset int) time.Time { return now.AddDate(0, 0, offset) }
	b.sales = []Sale{
		{EventID: 1, Quantity: 120, Revenue: 4800, SoldAt: at(-2)},
		{EventID: 1, Quantity: 35, Revenue: 1575.5, SoldAt: at(-12)},
		{EventID: 2, Quantity: 60, Revenue: 3600, SoldAt: at(-5)},
		{EventID: 3, Quantity: 838, Revenue: 25140, SoldAt: at(-45)},
	}
	return nil
}
