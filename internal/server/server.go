package server

// Server объединяет HTTP-серверы отдельных сущностей. Пока сущность одна —
// сделки.
type Server struct {
	DealServer
}

func NewServer(
	dealServer DealServer,
) Server {
	return Server{
		DealServer: dealServer,
	}
}
