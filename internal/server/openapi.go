package server

import (
	"fmt"
	"net/http"
)

func handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, openAPISpec)
}

const openAPISpec = `{
  "openapi": "3.0.3",
  "info": {
    "title": "heliumtrace",
    "description": "A read-only API over Helium payments and hotspot witness data stored in a graph database populated by an external ETL.",
    "version": "0.0.1",
    "license": {
      "name": "GNU General Public License v3.0",
      "url": "https://www.gnu.org/licenses/gpl-3.0.en.html"
    },
    "contact": {
      "name": "helium-arango-http",
      "url": "https://github.com/evandiewald/helium-arango-http/issues"
    }
  },
  "tags": [
    {
      "name": "payments",
      "description": "Get information about token flow over a given time period."
    },
    {
      "name": "hotspots",
      "description": "Get information about hotspot adjacency, expressed as witness paths."
    }
  ],
  "paths": {
    "/payments/{address}/from": {
      "get": {
        "tags": [
          "payments"
        ],
        "summary": "Top payees of an account",
        "parameters": [
          {
            "name": "address",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            }
          },
          {
            "name": "limit",
            "in": "query",
            "schema": {
              "type": "integer",
              "minimum": 1,
              "maximum": 1000
            }
          },
          {
            "name": "min_time",
            "in": "query",
            "description": "Exclusive lower bound, unix seconds. Defaults to 0.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          },
          {
            "name": "max_time",
            "in": "query",
            "description": "Exclusive upper bound, unix seconds. Defaults to now.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "type": "array",
                  "items": {
                    "$ref": "#/components/schemas/Payee"
                  }
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/payments/{address}/to": {
      "get": {
        "tags": [
          "payments"
        ],
        "summary": "Top payers of an account",
        "parameters": [
          {
            "name": "address",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            }
          },
          {
            "name": "limit",
            "in": "query",
            "schema": {
              "type": "integer",
              "minimum": 1,
              "maximum": 1000
            }
          },
          {
            "name": "min_time",
            "in": "query",
            "description": "Exclusive lower bound, unix seconds. Defaults to 0.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          },
          {
            "name": "max_time",
            "in": "query",
            "description": "Exclusive upper bound, unix seconds. Defaults to now.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "type": "array",
                  "items": {
                    "$ref": "#/components/schemas/Payer"
                  }
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/payments/totals": {
      "get": {
        "tags": [
          "payments"
        ],
        "summary": "Payment pairs by total amount",
        "parameters": [
          {
            "name": "limit",
            "in": "query",
            "schema": {
              "type": "integer",
              "minimum": 1,
              "maximum": 1000
            }
          },
          {
            "name": "min_time",
            "in": "query",
            "description": "Exclusive lower bound, unix seconds. Defaults to 0.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          },
          {
            "name": "max_time",
            "in": "query",
            "description": "Exclusive upper bound, unix seconds. Defaults to now.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "type": "array",
                  "items": {
                    "$ref": "#/components/schemas/PaymentTotal"
                  }
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/payments/counts": {
      "get": {
        "tags": [
          "payments"
        ],
        "summary": "Payment pairs by number of payments",
        "parameters": [
          {
            "name": "limit",
            "in": "query",
            "schema": {
              "type": "integer",
              "minimum": 1,
              "maximum": 1000
            }
          },
          {
            "name": "min_time",
            "in": "query",
            "description": "Exclusive lower bound, unix seconds. Defaults to 0.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          },
          {
            "name": "max_time",
            "in": "query",
            "description": "Exclusive upper bound, unix seconds. Defaults to now.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "type": "array",
                  "items": {
                    "$ref": "#/components/schemas/PaymentCount"
                  }
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/payments/payers": {
      "get": {
        "tags": [
          "payments"
        ],
        "summary": "Top payers",
        "parameters": [
          {
            "name": "limit",
            "in": "query",
            "schema": {
              "type": "integer",
              "minimum": 1,
              "maximum": 1000
            }
          },
          {
            "name": "min_time",
            "in": "query",
            "description": "Exclusive lower bound, unix seconds. Defaults to 0.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          },
          {
            "name": "max_time",
            "in": "query",
            "description": "Exclusive upper bound, unix seconds. Defaults to now.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "type": "array",
                  "items": {
                    "$ref": "#/components/schemas/Payer"
                  }
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/payments/payees": {
      "get": {
        "tags": [
          "payments"
        ],
        "summary": "Top payees",
        "parameters": [
          {
            "name": "limit",
            "in": "query",
            "schema": {
              "type": "integer",
              "minimum": 1,
              "maximum": 1000
            }
          },
          {
            "name": "min_time",
            "in": "query",
            "description": "Exclusive lower bound, unix seconds. Defaults to 0.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          },
          {
            "name": "max_time",
            "in": "query",
            "description": "Exclusive upper bound, unix seconds. Defaults to now.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "type": "array",
                  "items": {
                    "$ref": "#/components/schemas/Payee"
                  }
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/payments/payers/graph": {
      "get": {
        "tags": [
          "payments"
        ],
        "summary": "Payment graph seeded by the top payers",
        "parameters": [
          {
            "name": "limit",
            "in": "query",
            "schema": {
              "type": "integer",
              "minimum": 1,
              "maximum": 1000
            }
          },
          {
            "name": "min_time",
            "in": "query",
            "description": "Exclusive lower bound, unix seconds. Defaults to 0.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          },
          {
            "name": "max_time",
            "in": "query",
            "description": "Exclusive upper bound, unix seconds. Defaults to now.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/PaymentGraph"
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/payments/payees/graph": {
      "get": {
        "tags": [
          "payments"
        ],
        "summary": "Payment graph seeded by the top payees",
        "parameters": [
          {
            "name": "limit",
            "in": "query",
            "schema": {
              "type": "integer",
              "minimum": 1,
              "maximum": 1000
            }
          },
          {
            "name": "min_time",
            "in": "query",
            "description": "Exclusive lower bound, unix seconds. Defaults to 0.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          },
          {
            "name": "max_time",
            "in": "query",
            "description": "Exclusive upper bound, unix seconds. Defaults to now.",
            "schema": {
              "type": "integer",
              "format": "int64"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/PaymentGraph"
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/hotspots/coords/graph": {
      "get": {
        "tags": [
          "hotspots"
        ],
        "summary": "Witness graph around the hotspots nearest a coordinate",
        "parameters": [
          {
            "name": "lat",
            "in": "query",
            "required": true,
            "schema": {
              "type": "number"
            }
          },
          {
            "name": "lon",
            "in": "query",
            "required": true,
            "schema": {
              "type": "number"
            }
          },
          {
            "name": "limit",
            "in": "query",
            "schema": {
              "type": "integer",
              "default": 10
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/WitnessGraph"
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/hotspots/hex/graph": {
      "get": {
        "tags": [
          "hotspots"
        ],
        "summary": "Witness graph inside an H3 cell",
        "parameters": [
          {
            "name": "hex",
            "in": "query",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/WitnessGraph"
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/hotspots/{address}/outbound": {
      "get": {
        "tags": [
          "hotspots"
        ],
        "summary": "Hotspots that witnessed this hotspot",
        "parameters": [
          {
            "name": "address",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Witnesses"
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/hotspots/{address}/inbound": {
      "get": {
        "tags": [
          "hotspots"
        ],
        "summary": "Hotspots this hotspot witnessed",
        "parameters": [
          {
            "name": "address",
            "in": "path",
            "required": true,
            "schema": {
              "type": "string"
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Witnesses"
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/hotspots/receipts": {
      "get": {
        "tags": [
          "hotspots"
        ],
        "summary": "Recent witness receipts",
        "parameters": [
          {
            "name": "address",
            "in": "query",
            "schema": {
              "type": "string"
            }
          },
          {
            "name": "limit",
            "in": "query",
            "schema": {
              "type": "integer",
              "default": 1000
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Receipts"
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    },
    "/hotspots/clusters": {
      "get": {
        "tags": [
          "hotspots"
        ],
        "summary": "K-means clusters of hotspot locations",
        "parameters": [
          {
            "name": "n_clusters",
            "in": "query",
            "schema": {
              "type": "integer",
              "default": 10
            }
          }
        ],
        "responses": {
          "200": {
            "description": "OK",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Clusters"
                }
              }
            }
          },
          "400": {
            "description": "Invalid parameters",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          },
          "503": {
            "description": "Graph query failed",
            "content": {
              "application/json": {
                "schema": {
                  "$ref": "#/components/schemas/Error"
                }
              }
            }
          }
        }
      }
    }
  },
  "components": {
    "schemas": {
      "Error": {
        "type": "object",
        "properties": {
          "error": {
            "type": "string"
          }
        }
      },
      "PaymentTotal": {
        "type": "object",
        "properties": {
          "from": {
            "type": "string"
          },
          "to": {
            "type": "string"
          },
          "payment_total": {
            "type": "number"
          }
        }
      },
      "PaymentCount": {
        "type": "object",
        "properties": {
          "from": {
            "type": "string"
          },
          "to": {
            "type": "string"
          },
          "payment_count": {
            "type": "integer",
            "format": "int64"
          }
        }
      },
      "Payer": {
        "type": "object",
        "properties": {
          "from": {
            "type": "string"
          },
          "total_amount": {
            "type": "number"
          },
          "num_payments": {
            "type": "integer",
            "format": "int64"
          }
        }
      },
      "Payee": {
        "type": "object",
        "properties": {
          "to": {
            "type": "string"
          },
          "total_amount": {
            "type": "number"
          },
          "num_payments": {
            "type": "integer",
            "format": "int64"
          }
        }
      },
      "Vertex": {
        "type": "object",
        "additionalProperties": true,
        "properties": {
          "address": {
            "type": "string"
          }
        }
      },
      "FlowEdge": {
        "type": "object",
        "properties": {
          "from": {
            "type": "string"
          },
          "to": {
            "type": "string"
          },
          "total_amount": {
            "type": "number"
          },
          "num_payments": {
            "type": "integer",
            "format": "int64"
          }
        }
      },
      "PaymentGraph": {
        "type": "object",
        "properties": {
          "nodes": {
            "type": "array",
            "items": {
              "$ref": "#/components/schemas/Vertex"
            }
          },
          "edges": {
            "type": "array",
            "items": {
              "$ref": "#/components/schemas/FlowEdge"
            }
          }
        }
      },
      "WitnessEdge": {
        "type": "object",
        "properties": {
          "from": {
            "type": "string"
          },
          "to": {
            "type": "string"
          },
          "snr": {
            "type": "number"
          },
          "rssi": {
            "type": "number"
          },
          "distance_m": {
            "type": "number"
          }
        }
      },
      "WitnessGraph": {
        "type": "object",
        "properties": {
          "nodes": {
            "type": "array",
            "items": {
              "$ref": "#/components/schemas/Vertex"
            }
          },
          "edges": {
            "type": "array",
            "items": {
              "$ref": "#/components/schemas/WitnessEdge"
            }
          }
        }
      },
      "Witnesses": {
        "type": "object",
        "properties": {
          "witnesses": {
            "type": "array",
            "items": {
              "$ref": "#/components/schemas/Vertex"
            }
          }
        }
      },
      "Receipt": {
        "type": "object",
        "properties": {
          "from": {
            "type": "string"
          },
          "to": {
            "type": "string"
          },
          "gateway": {
            "type": "string"
          },
          "snr": {
            "type": "number"
          },
          "signal": {
            "type": "number"
          },
          "time": {
            "type": "integer",
            "format": "int64"
          }
        }
      },
      "Receipts": {
        "type": "object",
        "properties": {
          "receipts": {
            "type": "array",
            "items": {
              "$ref": "#/components/schemas/Receipt"
            }
          }
        }
      },
      "Clusters": {
        "type": "object",
        "properties": {
          "centroids": {
            "type": "array",
            "items": {
              "type": "array",
              "items": {
                "type": "number"
              },
              "minItems": 2,
              "maxItems": 2
            }
          },
          "error": {
            "type": "number"
          }
        }
      }
    }
  }
}
`
