package directory

import "github.com/ZP-ING/reportebuenaventura-backend/internal/domain"

// FallbackEntityID receives complaints no other entity claims.
const FallbackEntityID = "alcaldia-buenaventura"

// SeedCatalog returns the entities a fresh store is seeded with, in
// directory order.
func SeedCatalog() []domain.Entity {
	seed := []domain.Entity{
		{
			ID:          FallbackEntityID,
			Name:        "Alcaldía Distrital de Buenaventura",
			Description: "Administración distrital. Atiende los reportes que no corresponden a otra entidad.",
			Website:     "https://www.buenaventura.gov.co",
			Address:     "Centro Administrativo Distrital, Buenaventura, Valle del Cauca",
			Categories:  []string{domain.OtherCategory},
		},
		{
			ID:          "secretaria-infraestructura",
			Name:        "Secretaría de Infraestructura",
			Description: "Mantenimiento de vías, andenes, puentes y del alumbrado público.",
			Categories:  []string{"Alumbrado Público", "Vías y Calles"},
		},
		{
			ID:          "empresa-servicios-publicos",
			Name:        "Empresa de Servicios Públicos",
			Description: "Recolección de residuos sólidos y aseo urbano.",
			Categories:  []string{"Recolección de Basuras"},
		},
		{
			ID:          "acueducto-alcantarillado",
			Name:        "Empresa de Acueducto y Alcantarillado",
			Description: "Suministro de agua potable y operación del alcantarillado.",
			Categories:  []string{"Agua Potable", "Alcantarillado"},
		},
		{
			ID:          "secretaria-gobierno",
			Name:        "Secretaría de Gobierno y Seguridad",
			Description: "Convivencia ciudadana y seguridad del distrito.",
			Categories:  []string{"Seguridad"},
		},
		{
			ID:          "policia-nacional",
			Name:        "Policía Nacional, Estación Buenaventura",
			Description: "Atención de delitos y alteraciones del orden público.",
			Phone:       "123",
			Categories:  []string{"Seguridad", "Orden Público"},
		},
		{
			ID:          "secretaria-salud",
			Name:        "Secretaría de Salud",
			Description: "Salud pública, control de vectores y saneamiento.",
			Categories:  []string{"Salud Pública"},
		},
		{
			ID:          "establecimiento-ambiental",
			Name:        "Establecimiento Público Ambiental",
			Description: "Autoridad ambiental urbana: contaminación, ruido, manglares y fauna.",
			Categories:  []string{"Medio Ambiente"},
		},
		{
			ID:          "cuerpo-bomberos",
			Name:        "Cuerpo de Bomberos Voluntarios de Buenaventura",
			Description: "Incendios, fugas de gas, explosiones y rescates.",
			Phone:       "119",
			Categories:  []string{"Incendios y Rescate"},
		},
		{
			ID:          "hospital-distrital",
			Name:        "Hospital Distrital Luis Ablanque de la Plaza",
			Description: "Urgencias, heridos y atención médica inmediata.",
			Phone:       "125",
			Categories:  []string{"Emergencias Médicas"},
		},
		{
			ID:          "empresa-energia",
			Name:        "Empresa de Energía del Pacífico",
			Description: "Suministro eléctrico, cortes de energía, redes y transformadores.",
			Phone:       "115",
			Categories:  []string{"Energía Eléctrica"},
		},
		{
			ID:          "secretaria-educacion",
			Name:        "Secretaría de Educación Distrital",
			Description: "Instituciones educativas, cupos, docentes y alimentación escolar.",
			Categories:  []string{"Educación"},
		},
		{
			ID:          "defensoria-pueblo",
			Name:        "Defensoría del Pueblo, Regional Pacífico",
			Description: "Protección de derechos humanos, víctimas y población desplazada.",
			Categories:  []string{"Derechos Humanos"},
		},
		{
			ID:          "personeria-distrital",
			Name:        "Personería Distrital de Buenaventura",
			Description: "Conflictos de convivencia, derechos de petición y quejas contra servidores públicos.",
			Categories:  []string{"Convivencia"},
		},
		{
			ID:          "contraloria-distrital",
			Name:        "Contraloría Distrital de Buenaventura",
			Description: "Vigilancia de los recursos públicos, contratos y obras.",
			Categories:  []string{"Control Fiscal"},
		},
	}
	for i := range seed {
		seed[i].Active = true
		seed[i].Position = i + 1
	}
	return seed
}
