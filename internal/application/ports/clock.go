package ports

import "time"

// Calendar agrupa la zona horaria del negocio y la fuente de "ahora".
// Todos los cálculos por día (facturación, auto-inicio, vencimientos) usan Location.
type Calendar struct {
	Location *time.Location
	Now      func() time.Time
}

// NewCalendar crea un Calendar sobre el reloj del sistema. loc nil equivale a UTC.
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{Location: loc, Now: time.Now}
}

// Today devuelve el instante actual expresado en la zona del negocio.
func (c Calendar) Today() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.loc())
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Loc devuelve la zona horaria efectiva.
func (c Calendar) Loc() *time.Location { return c.loc() }
