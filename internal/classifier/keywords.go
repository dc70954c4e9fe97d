package classifier

// CategoryKeywords lists the triggers for one category label. Keywords
// match anywhere in the text; Words only match as whole words, for short
// tokens that also occur inside unrelated words ("vía" in "todavía").
type CategoryKeywords struct {
	Category string
	Keywords []string
	Words    []string
}

// DefaultKeywords returns the built-in table. Declaration order is the
// tie-break order: on equal counts the earlier category wins.
//
// Keywords are matched as substrings of the normalized text, so a stem such
// as "delincuen" covers every inflection. Accents are significant; forms that
// citizens commonly write without them are listed twice.
func DefaultKeywords() []CategoryKeywords {
	return []CategoryKeywords{
		{
			Category: "Alumbrado Público",
			Keywords: []string{
				"alumbrado", "luminaria", "poste de luz", "postes de luz", "bombillo",
				"bombilla", "lámpara", "lampara", "iluminación", "iluminacion",
				"sin luz", "oscuridad", "reflector", "a oscuras",
			},
			Words: []string{"luz", "luces", "poste", "postes", "foco", "focos"},
		},
		{
			Category: "Vías y Calles",
			Keywords: []string{
				"hueco", "bache", "pavimento", "asfalto", "calle", "carrera",
				"avenida", "carretera", "vías", "andén", "anden", "acera", "puente",
				"sardinel", "hundimiento", "trocha", "semáforo", "semaforo",
				"señalización", "senalizacion",
			},
			Words: []string{"vía", "via"},
		},
		{
			Category: "Recolección de Basuras",
			Keywords: []string{
				"basura", "residuo", "desecho", "escombro", "recolección",
				"recoleccion", "botadero", "reciclaje", "contenedor", "limpieza",
				"relleno sanitario", "camión recolector", "camion recolector",
			},
			Words: []string{"aseo"},
		},
		{
			Category: "Agua Potable",
			Keywords: []string{
				"agua", "acueducto", "tubería", "tuberia", "fuga", "grifo",
				"potable", "medidor", "racionamiento", "carrotanque",
			},
		},
		{
			Category: "Alcantarillado",
			Keywords: []string{
				"alcantarilla", "aguas negras", "aguas residuales", "desagüe",
				"desague", "cloaca", "caño", "sumidero", "pozo séptico",
				"pozo septico", "colector",
			},
		},
		{
			Category: "Seguridad",
			Keywords: []string{
				"robo", "robaron", "hurto", "atraco", "atracaron", "ladrón",
				"ladron", "delincuen", "pandilla", "seguridad", "vandalismo",
				"amenaza", "extorsión", "extorsion", "sicario", "balacera",
				"disparo", "arma de fuego", "cuchillo", "asalto", "violencia",
			},
		},
		{
			Category: "Salud Pública",
			Keywords: []string{
				"salud", "dengue", "zancudo", "mosquito", "epidemia",
				"enfermedad", "plaga", "ratas", "roedor", "fumigación",
				"fumigacion", "criadero", "infección", "infeccion", "vacunación",
				"vacunacion", "malaria", "paludismo",
			},
		},
		{
			Category: "Medio Ambiente",
			Keywords: []string{
				"contamina", "tala de árboles", "tala de arboles", "talando", "talaron",
				"árbol", "arbol", "manglar", "ruido", "humo", "quema", "vertimiento",
				"estero", "deforestación", "deforestacion", "fauna", "derrame",
				"malos olores",
			},
			Words: []string{"río", "rio", "tala"},
		},
		{
			Category: "Incendios y Rescate",
			Keywords: []string{
				"incendio", "incendió", "fuego", "llamas", "llamarada", "candela",
				"se está quemando", "se quemó", "explosión", "explosion", "explotó",
				"fuga de gas", "escape de gas", "olor a gas", "cilindro de gas",
				"pipeta de gas", "conato", "bombero", "rescate", "atrapado",
				"cortocircuito", "corto circuito",
			},
		},
		{
			Category: "Emergencias Médicas",
			Keywords: []string{
				"ambulancia", "herido", "herida", "lesionado", "accidente",
				"atropellado", "atropello", "desmayado", "desmayó", "inconsciente",
				"hemorragia", "sangrando", "fractura", "infarto", "convulsión",
				"convulsion", "intoxicado", "intoxicación", "urgencias",
				"emergencia médica", "hospital", "centro de salud", "médico",
				"paramédico",
			},
		},
		{
			Category: "Energía Eléctrica",
			Keywords: []string{
				"energía", "energia", "eléctrica", "electrica", "eléctrico",
				"electrico", "electricidad", "transformador", "corte de luz",
				"se fue la luz", "apagón", "apagon", "cable caído", "cables caídos",
				"voltaje", "alto consumo", "factura de energía", "recibo de la luz",
				"reconexión", "reconexion",
			},
		},
		{
			Category: "Educación",
			Keywords: []string{
				"colegio", "escuela", "institución educativa", "institucion educativa",
				"estudiante", "alumno", "profesor", "docente", "maestro", "matrícula",
				"matricula", "cupo escolar", "transporte escolar", "restaurante escolar",
				"alimentación escolar", "salón de clase", "educación", "educacion",
			},
			Words: []string{"aula", "aulas", "rector", "rectora"},
		},
		{
			Category: "Derechos Humanos",
			Keywords: []string{
				"derechos humanos", "discriminación", "discriminacion", "desplazado",
				"desplazamiento", "víctima", "victima", "violencia de género",
				"violencia de genero", "violencia intrafamiliar", "feminicidio",
				"maltrato", "abuso de autoridad", "reclutamiento", "trata de personas",
				"racismo", "tutela",
			},
		},
		{
			Category: "Convivencia",
			Keywords: []string{
				"vecino", "convivencia", "música alta", "musica alta", "parlante",
				"bulla", "escándalo", "escandalo", "ladrido", "mascota", "lindero",
				"invasión de lote", "invasion de lote", "conciliación", "conciliacion",
				"derecho de petición", "derecho de peticion", "personería", "personeria",
			},
		},
		{
			Category: "Control Fiscal",
			Keywords: []string{
				"corrupción", "corrupcion", "corrupto", "malversación", "malversacion",
				"sobrecosto", "contratista", "contrato", "licitación", "licitacion",
				"recursos públicos", "recursos publicos", "dinero público",
				"dinero publico", "obra inconclusa", "obra abandonada", "elefante blanco",
				"desfalco", "peculado", "veeduría", "veeduria", "contraloría", "contraloria",
			},
		},
	}
}
